package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"globeview/internal/globe"
)

type cell struct {
	ch   rune
	fg   string
	bg   string
	bold bool
}

// canvas is a grid of styled cells, flattened into lipgloss runs.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i].ch = ' '
	}
	return c
}

func (c *canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

// text writes s from (x, y) on, clipped to the canvas.
func (c *canvas) text(x, y int, s, fg, bg string, bold bool) {
	for i, r := range []rune(s) {
		if p := c.at(x+i, y); p != nil {
			*p = cell{ch: r, fg: fg, bg: bg, bold: bold}
		}
	}
}

func (c *canvas) String() string {
	lines := make([]string, c.h)
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		var line strings.Builder
		row := c.cells[y*c.w : (y+1)*c.w]
		for x := 0; x < len(row); {
			start := row[x]
			run.Reset()
			for x < len(row) && row[x].fg == start.fg && row[x].bg == start.bg && row[x].bold == start.bold {
				run.WriteRune(row[x].ch)
				x++
			}
			line.WriteString(cellStyle(start).Render(run.String()))
		}
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

func cellStyle(c cell) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c.fg != "" {
		st = st.Foreground(lipgloss.Color(c.fg))
	}
	if c.bg != "" {
		st = st.Background(lipgloss.Color(c.bg))
	}
	if c.bold {
		st = st.Bold(true)
	}
	return st
}

// renderGlobe rasterizes the scene into a w x h cell canvas: the shaded
// sphere as cell backgrounds, glyphs as colored braille strokes from base
// to tip, then the tooltip of the hovered glyph.
func (m Model) renderGlobe(w, h int) *canvas {
	cv := newCanvas(w, h)
	aspect := m.cfg.CellAspect
	scene := m.globe.Scene()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px, py := pointer(x, y, aspect)
			if col, ok := scene.Shade(m.globe.NDC(px, py)); ok {
				cv.at(x, y).bg = col.Hex()
			}
		}
	}

	br := newBrailleBuf(w, h)
	hot := m.globe.Highlighted()
	for _, g := range m.drawOrder() {
		base, tip := g.Ends()
		b, okB := scene.Camera.ToScreen(scene.ToWorld(base))
		t, okT := scene.Camera.ToScreen(scene.ToWorld(tip))
		if !okB || !okT {
			continue
		}
		x0, y0 := int(b.X()*2), int(b.Y()/aspect*4)
		x1, y1 := int(t.X()*2), int(t.Y()/aspect*4)
		col := g.Visual().Color
		br.drawLineMicro(x0, y0, x1, y1, col)
		if g == hot {
			// fatten the hovered glyph's tip so it reads at any zoom
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					br.setPixel(x1+dx, y1+dy, col)
				}
			}
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r, col, ok := br.at(x, y); ok {
				c := cv.at(x, y)
				c.ch, c.fg = r, col.Hex()
			}
		}
	}

	if hover := m.globe.Hover(); hover.Hit {
		ax := int(hover.Anchor.X())
		ay := int(hover.Anchor.Y() / aspect)
		drawTooltip(cv, ax+2, ay+1, tooltipLines(hover.Metadata, m.printer))
	}
	return cv
}

// drawOrder lists the glyphs on the visible hemisphere, far to near, with
// the highlighted glyph last so nothing covers it.
func (m Model) drawOrder() []*globe.Glyph {
	scene := m.globe.Scene()
	cam := scene.Camera.Position()
	hot := m.globe.Highlighted()
	var (
		out   []*globe.Glyph
		depth = map[*globe.Glyph]float64{}
	)
	for _, g := range scene.Glyphs() {
		if g == hot {
			continue
		}
		if !scene.Visible(g) {
			continue
		}
		depth[g] = scene.WorldPosition(g).Sub(cam).Len()
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return depth[out[i]] > depth[out[j]] })
	if hot != nil {
		out = append(out, hot)
	}
	return out
}
