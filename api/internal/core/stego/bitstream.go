package stego

const (
	// ChannelsPerPixel is the number of modifiable channels in a pixel.
	ChannelsPerPixel = 3

	// Terminator marks the end of the payload.
	Terminator uint16 = 0xFFFE

	// TerminatorBits is the terminator length in bits.
	TerminatorBits = 16
)

// Bitstream is a sequence of bits, one per element, each 0 or 1.
type Bitstream []uint8

// NewBitstream expands payload into bits, most significant bit first, and
// appends the terminator.
func NewBitstream(payload []byte) Bitstream {
	bits := make(Bitstream, 0, len(payload)*8+TerminatorBits)
	for _, b := range payload {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1)
		}
	}
	for i := TerminatorBits - 1; i >= 0; i-- {
		bits = append(bits, uint8(Terminator>>uint(i))&1)
	}
	return bits
}
