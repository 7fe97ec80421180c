package stego

import (
	"strings"

	"github.com/irgordon/stegocrypt/api/internal/core/domain"
)

// Encode returns a copy of m with payload and the terminator written into the
// channel LSBs. Channels past the last terminator bit keep their values. m is
// never modified.
func Encode(m *RGBImage, payload []byte) (*RGBImage, error) {
	bits := NewBitstream(payload)
	if len(bits) > len(m.Pix) {
		return nil, &domain.CapacityError{
			MaxBytes: CapacityOf(m).MaxBytes,
			Size:     len(payload),
		}
	}

	out := m.Clone()
	for i, bit := range bits {
		out.Pix[i] = out.Pix[i]&0xFE | bit
	}
	return out, nil
}

// EncodeBytes decodes an image in any supported container, embeds payload and
// returns the result as PNG.
func EncodeBytes(data []byte, payload []byte) ([]byte, error) {
	m, _, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	stego, err := Encode(m, payload)
	if err != nil {
		return nil, err
	}
	return EncodePNG(stego)
}

// Extract scans channel LSBs until the terminator and returns the raw payload
// bytes, without text sanitation.
func Extract(m *RGBImage) ([]byte, error) {
	var (
		window uint16
		cur    byte
		out    []byte
	)
	for n, c := range m.Pix {
		bit := c & 1
		window = window<<1 | uint16(bit)
		cur = cur<<1 | bit
		if (n+1)%8 == 0 {
			out = append(out, cur)
			cur = 0
		}
		if n+1 < TerminatorBits || window != Terminator {
			continue
		}

		payloadBits := n + 1 - TerminatorBits
		if payloadBits < 8 {
			return nil, domain.ErrNoMessage
		}
		return out[:payloadBits/8], nil
	}
	return nil, domain.ErrNoMessage
}

// Decode extracts the hidden text from m. Bytes outside the printable ASCII
// and tab/newline/carriage-return set are dropped.
func Decode(m *RGBImage) (string, error) {
	raw, err := Extract(m)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(strings.TrimRightFunc(sanitize(raw), isTrailingControl))
	if text == "" {
		return "", domain.ErrNoMessage
	}
	return text, nil
}

// DecodeBytes decodes an image in any supported container and extracts the
// hidden text.
func DecodeBytes(data []byte) (string, error) {
	m, _, err := DecodeImage(data)
	if err != nil {
		return "", err
	}
	return Decode(m)
}

func sanitize(raw []byte) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, b := range raw {
		if (b >= 32 && b <= 126) || b == '\t' || b == '\n' || b == '\r' {
			sb.WriteByte(b)
		}
	}
	return sb.String()
}

func isTrailingControl(r rune) bool {
	return r <= 0x08 || (r >= 0x0B && r <= 0x0F)
}
