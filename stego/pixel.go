package stego

import (
	"fmt"
	"image/color"
)

// Surface is a mutable pixel grid with 8-bit channels. The codec only
// touches the two low bits of red, green and blue. Implementations are not
// expected to be safe for concurrent writers.
type Surface interface {
	Width() int
	Height() int
	Pixel(x, y int) color.NRGBA
	SetPixel(x, y int, c color.NRGBA)
}

const channelMask = 0b11

// WriteSymbol stores s in the pixel at c, keeping alpha and the upper six
// bits of every channel.
func WriteSymbol(surface Surface, c Coordinate, s Symbol) error {
	if !c.Within(surface.Width(), surface.Height()) {
		return fmt.Errorf("write symbol at %v: %w", c, ErrOutOfBounds)
	}
	px := surface.Pixel(c.X, c.Y)
	px.R = px.R&^channelMask | s.High()
	px.G = px.G&^channelMask | s.Mid()
	px.B = px.B&^channelMask | s.Low()
	surface.SetPixel(c.X, c.Y, px)
	return nil
}

// ReadSymbol returns the symbol stored in the pixel at c.
func ReadSymbol(surface Surface, c Coordinate) (Symbol, error) {
	if !c.Within(surface.Width(), surface.Height()) {
		return 0, fmt.Errorf("read symbol at %v: %w", c, ErrOutOfBounds)
	}
	px := surface.Pixel(c.X, c.Y)
	return Symbol((px.R&channelMask)<<4 | (px.G&channelMask)<<2 | px.B&channelMask), nil
}

// WriteRun writes symbols to consecutive pixels starting at start and
// returns the first pixel after the run. A run that ends on the last pixel
// of the surface returns a position from which nothing more can be written.
// Running out of pixels fails with ErrCapacityExceeded; the pixels before
// the failure have already been written.
func WriteRun(surface Surface, symbols []Symbol, start Coordinate) (Coordinate, error) {
	width, height := surface.Width(), surface.Height()
	cur := start
	for i, s := range symbols {
		if err := WriteSymbol(surface, cur, s); err != nil {
			return cur, fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
		}
		next, err := Advance(cur, width, height)
		if err != nil {
			if i == len(symbols)-1 {
				return end(height), nil
			}
			return cur, fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
		}
		cur = next
	}
	return cur, nil
}

// ReadRun reads count symbols from consecutive pixels starting at start.
// It fails with ErrOutOfBounds before reading anything if the run would
// leave the surface.
func ReadRun(surface Surface, start Coordinate, count int) ([]Symbol, Coordinate, error) {
	width, height := surface.Width(), surface.Height()
	if count < 0 {
		return nil, start, fmt.Errorf("negative run length %d: %w", count, ErrRange)
	}
	if avail := start.Remaining(width, height); count > avail {
		return nil, start, fmt.Errorf("run of %d symbols from %v, %d pixels left: %w", count, start, avail, ErrOutOfBounds)
	}

	out := make([]Symbol, count)
	cur := start
	for i := range out {
		s, err := ReadSymbol(surface, cur)
		if err != nil {
			return nil, cur, err
		}
		out[i] = s
		next, err := Advance(cur, width, height)
		if err != nil {
			if i == count-1 {
				return out, end(height), nil
			}
			return nil, cur, err
		}
		cur = next
	}
	return out, cur, nil
}
