package stego

import "image/color"

// grid is an in-memory Surface for tests.
type grid struct {
	w, h int
	px   []color.NRGBA
}

func newGrid(w, h int, fill color.NRGBA) *grid {
	g := &grid{w: w, h: h, px: make([]color.NRGBA, w*h)}
	for i := range g.px {
		g.px[i] = fill
	}
	return g
}

func (g *grid) Width() int  { return g.w }
func (g *grid) Height() int { return g.h }

func (g *grid) Pixel(x, y int) color.NRGBA { return g.px[y*g.w+x] }

func (g *grid) SetPixel(x, y int, c color.NRGBA) { g.px[y*g.w+x] = c }

func (g *grid) clone() *grid {
	c := &grid{w: g.w, h: g.h, px: make([]color.NRGBA, len(g.px))}
	copy(c.px, g.px)
	return c
}

var gray = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
