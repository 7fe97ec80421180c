package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPad(t *testing.T) {
	assert.Equal(t, []byte{'a', 3, 3, 3}, pad([]byte("a"), 4))
	assert.Equal(t, []byte{'a', 'b', 'c', 'd', 4, 4, 4, 4}, pad([]byte("abcd"), 4))
	assert.Equal(t, []byte{2, 2}, pad(nil, 2))
}

func TestUnpad(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want []byte
		ok   bool
	}{
		{"valid", []byte{'a', 3, 3, 3}, []byte("a"), true},
		{"full block", []byte{4, 4, 4, 4}, []byte{}, true},
		{"zero pad byte", []byte{'a', 'b', 'c', 0}, nil, false},
		{"pad longer than block", []byte{'a', 'b', 'c', 5}, nil, false},
		{"inconsistent", []byte{'a', 'b', 1, 2}, nil, false},
		{"misaligned", []byte{'a', 1}, nil, false},
		{"empty", nil, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := unpad(tc.in, 4)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
