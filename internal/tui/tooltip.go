package tui

import (
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"

	"globeview/internal/globe"
)

// tooltipLines is the hover card body: name, country, population with
// thousands separators.
func tooltipLines(meta globe.Metadata, p *message.Printer) []string {
	name := meta.Name
	if name == "" {
		name = "(unnamed)"
	}
	country := meta.Country
	if country == "" {
		country = "-"
	}
	return []string{
		name,
		"Country: " + country,
		p.Sprintf("Population: %d", meta.Population),
	}
}

// drawTooltip draws a bordered card with its top-left corner at (x, y),
// shifted back inside the canvas when it would overflow. The first line is
// bold.
func drawTooltip(cv *canvas, x, y int, lines []string) {
	inner := 0
	for _, l := range lines {
		inner = max(inner, lipgloss.Width(l))
	}
	boxW, boxH := inner+4, len(lines)+2
	x = clampInt(x, 0, max(0, cv.w-boxW))
	y = clampInt(y, 0, max(0, cv.h-boxH))

	b := lipgloss.RoundedBorder()
	bar := ""
	for i := 0; i < inner+2; i++ {
		bar += b.Top
	}
	cv.text(x, y, b.TopLeft+bar+b.TopRight, tooltipBorder, tooltipBg, false)
	for i, l := range lines {
		row := y + 1 + i
		cv.text(x, row, b.Left, tooltipBorder, tooltipBg, false)
		cv.text(x+1, row, " "+padRight(l, inner-lipgloss.Width(l))+" ", tooltipFg, tooltipBg, i == 0)
		cv.text(x+boxW-1, row, b.Right, tooltipBorder, tooltipBg, false)
	}
	cv.text(x, y+boxH-1, b.BottomLeft+bar+b.BottomRight, tooltipBorder, tooltipBg, false)
}
