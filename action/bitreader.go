package action

// BitReader extracts unsigned integers of arbitrary bit width from a byte
// buffer. Bits are consumed least-significant-bit first within each byte and
// a read spanning a byte boundary continues into the next byte's lowest bit.
//
// Reading past the end of the buffer yields zero for every missing bit. A
// truncated packet therefore still produces a structurally complete decode;
// the decoder's own count checks are the safety net, not the reader.
type BitReader struct {
	data []byte
	pos  int // absolute bit position, monotonic
}

// NewBitReader returns a reader positioned at the given byte offset.
func NewBitReader(data []byte, byteOffset int) *BitReader {
	return &BitReader{data: data, pos: byteOffset * 8}
}

// Read consumes width bits (1..32) and returns them as an unsigned value.
func (r *BitReader) Read(width int) uint32 {
	var v uint32
	for i := 0; i < width; i++ {
		idx := r.pos >> 3
		if idx < len(r.data) && r.data[idx]&(1<<(r.pos&7)) != 0 {
			v |= 1 << i
		}
		r.pos++
	}
	return v
}

// Skip advances the cursor without decoding. The cursor never rewinds.
func (r *BitReader) Skip(width int) {
	r.pos += width
}
