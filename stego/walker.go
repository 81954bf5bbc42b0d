package stego

import "fmt"

// Coordinate is a pixel position. It is a value: walking produces a new
// Coordinate and never changes the one passed in.
type Coordinate struct {
	X int
	Y int
}

// Origin is where every frame starts.
var Origin = Coordinate{}

// Advance returns the pixel after c in raster order. It fails with
// ErrOutOfBounds when c is the last pixel of a width x height surface.
func Advance(c Coordinate, width, height int) (Coordinate, error) {
	next := Coordinate{X: c.X + 1, Y: c.Y}
	if next.X >= width {
		next.X = 0
		next.Y++
	}
	if next.Y >= height {
		return c, fmt.Errorf("advance from (%d, %d) on %dx%d surface: %w", c.X, c.Y, width, height, ErrOutOfBounds)
	}
	return next, nil
}

// Within reports whether c addresses a pixel of a width x height surface.
func (c Coordinate) Within(width, height int) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < width && c.Y < height
}

// Index returns the raster position of c.
func (c Coordinate) Index(width int) int {
	return c.Y*width + c.X
}

// Remaining returns how many pixels can still be used starting at c,
// counting c itself.
func (c Coordinate) Remaining(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	if c.Y >= height {
		return 0
	}
	return width*height - c.Index(width)
}

// end is the position just past the last pixel. Runs that fill a surface
// exactly finish here; any further read or write from it fails.
func end(height int) Coordinate {
	return Coordinate{X: 0, Y: height}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}
