package main

import (
	"context"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

const captureSnapLen = 65535

// openCapture opens a live capture on iface, or an offline reader when a
// capture file is given, filtered down to game traffic on the given port.
func openCapture(iface, file string, port int) (*pcap.Handle, error) {
	var (
		h   *pcap.Handle
		err error
	)
	if file != "" {
		h, err = pcap.OpenOffline(file)
	} else {
		h, err = pcap.OpenLive(iface, captureSnapLen, true, pcap.BlockForever)
	}
	if err != nil {
		return nil, err
	}
	if err := h.SetBPFFilter(fmt.Sprintf("udp and port %d", port)); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

// captureLoop reads datagrams from the handle, splits them into game packets
// and feeds them to out in arrival order. The channel is closed when the
// source drains (offline file) or the context ends.
func captureLoop(ctx context.Context, h *pcap.Handle, out chan<- []byte) {
	defer close(out)
	src := gopacket.NewPacketSource(h, h.LinkType())
	src.NoCopy = true
	for {
		select {
		case <-ctx.Done():
			return
		case pkt, ok := <-src.Packets():
			if !ok {
				return
			}
			layer := pkt.Layer(layers.LayerTypeUDP)
			if layer == nil {
				continue
			}
			udp := layer.(*layers.UDP)
			frames, clean := splitFrames(udp.Payload)
			if !clean {
				logDropped("datagram framing error (%d bytes)", len(udp.Payload))
			}
			for _, f := range frames {
				select {
				case out <- f:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
