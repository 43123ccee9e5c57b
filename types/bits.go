package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Bits is a bit string, written as '0' and '1' characters with the first
// bit on the left.
type Bits []bool

// ParseBits parses a string of '0' and '1' characters. Underscores and
// spaces are ignored.
func ParseBits(s string) (Bits, error) {
	bits := make(Bits, 0, len(s))
	for i, r := range s {
		switch r {
		case '0':
			bits = append(bits, false)
		case '1':
			bits = append(bits, true)
		case '_', ' ':
		default:
			return nil, fmt.Errorf("invalid bit %q at offset %d", r, i)
		}
	}
	return bits, nil
}

func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, bit := range b {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// MarshalJSON encodes the bits as a JSON string.
func (b Bits) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON decodes a JSON bit string.
func (b *Bits) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	bits, err := ParseBits(s)
	if err != nil {
		return err
	}
	*b = bits
	return nil
}
