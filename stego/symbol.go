// Package stego hides a file inside the two least significant bits of the
// red, green and blue channels of a pixel surface and recovers it again.
//
// Every pixel carries one 6-bit Symbol. A payload is written as four runs
// of symbols in raster order starting at (0,0):
//
//	[name length: 2][name: n][data length: 6][data: m]
//
// The length fields count symbols, not bytes.
package stego

import "fmt"

// MaxSymbol is the largest value a Symbol can hold.
const MaxSymbol = 63

// Symbol is a 6-bit value stored in a single pixel. The high, middle and
// low bit pairs go to the red, green and blue channels respectively.
type Symbol uint8

// NewSymbol returns v as a Symbol or an ErrRange error if v is outside 0-63.
func NewSymbol(v int) (Symbol, error) {
	if v < 0 || v > MaxSymbol {
		return 0, fmt.Errorf("symbol must be between 0 and %d, was %d: %w", MaxSymbol, v, ErrRange)
	}
	return Symbol(v), nil
}

// symbolOf builds a symbol from a value already known to be in range.
func symbolOf(v uint64) Symbol {
	return Symbol(v & MaxSymbol)
}

// Value returns the symbol as an int.
func (s Symbol) Value() int {
	return int(s)
}

// High returns the two bits stored in the red channel.
func (s Symbol) High() uint8 {
	return uint8(s) >> 4
}

// Mid returns the two bits stored in the green channel.
func (s Symbol) Mid() uint8 {
	return (uint8(s) >> 2) & 0b11
}

// Low returns the two bits stored in the blue channel.
func (s Symbol) Low() uint8 {
	return uint8(s) & 0b11
}

func (s Symbol) String() string {
	return fmt.Sprintf("%06b", uint8(s))
}
