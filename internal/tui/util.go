package tui

import "strings"

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// layout is the screen split shared by Update (mouse mapping) and View.
type layout struct {
	contentWidth  int
	contentHeight int
	sidebarW      int
	mapX, mapY    int
	mapW, mapH    int
}

func (m Model) layout() layout {
	lo := layout{
		contentWidth:  max(10, m.width),
		contentHeight: max(4, m.height-headerHeight-footerHeight),
	}
	if m.showSidebar {
		lo.sidebarW = sidebarWidth
		lo.mapX = sidebarWidth + 1
	}
	lo.mapY = headerHeight
	lo.mapW = max(10, lo.contentWidth-lo.mapX)
	lo.mapH = lo.contentHeight
	return lo
}

func (lo layout) contains(x, y int) bool {
	return x >= lo.mapX && x < lo.mapX+lo.mapW && y >= lo.mapY && y < lo.mapY+lo.mapH
}

// pointer converts a map cell to pointer units: one unit per column and
// cellAspect units per row, sampled at the cell center.
func pointer(cellX, cellY int, cellAspect float64) (x, y float64) {
	return float64(cellX) + 0.5, (float64(cellY) + 0.5) * cellAspect
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func padRight(s string, n int) string {
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}
