package main

import "encoding/binary"

// Game packet framing. A captured datagram carries one or more packets, each
// starting with a 4 byte header: a uint16 little-endian word with the packet
// id in bits 0..8 and the length in 4 byte words in bits 9..15, then a
// uint16 sequence number.
const (
	frameHeaderLen = 4
	packetIDMask   = 0x01FF
)

func packetID(m []byte) uint16 {
	return binary.LittleEndian.Uint16(m[0:2]) & packetIDMask
}

func packetSeq(m []byte) uint16 {
	return binary.LittleEndian.Uint16(m[2:4])
}

// splitFrames walks a datagram and returns the packets it carries. The
// second return is false when a header declares a length that is zero or
// runs past the datagram; packets before the bad header are still returned
// and the rest of the datagram is discarded.
func splitFrames(datagram []byte) ([][]byte, bool) {
	var out [][]byte
	for len(datagram) >= frameHeaderLen {
		h := binary.LittleEndian.Uint16(datagram[0:2])
		size := int(h>>9) * 4
		if size < frameHeaderLen || size > len(datagram) {
			return out, false
		}
		out = append(out, append([]byte(nil), datagram[:size]...))
		datagram = datagram[size:]
	}
	return out, len(datagram) == 0
}
