package tui

import "globeview/internal/geo"

// brailleBuf is a 2x4 dot grid per cell. Each cell remembers the color of
// the last stroke that touched it.
type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
	c    [][]geo.RGB
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	c := make([][]geo.RGB, h)
	for i := range m {
		m[i] = make([]uint8, w)
		c[i] = make([]geo.RGB, w)
	}
	return &brailleBuf{w: w, h: h, m: m, c: c}
}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, col geo.RGB) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[mx%2][my%4]
	b.c[cy][cx] = col
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, col geo.RGB) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// at returns the braille rune and stroke color of a cell, ok false when
// the cell is empty.
func (b *brailleBuf) at(x, y int) (rune, geo.RGB, bool) {
	mask := b.m[y][x]
	if mask == 0 {
		return ' ', geo.RGB{}, false
	}
	return rune(0x2800 + int(mask)), b.c[y][x], true
}
