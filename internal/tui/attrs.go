package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"globeview/internal/globe"
)

func cityColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "City", Width: 20},
		{Title: "Country", Width: 16},
		{Title: "Population", Width: 13},
		{Title: "Lat", Width: 8},
		{Title: "Lon", Width: 8},
	}
}

// refreshCityTable rebuilds the table rows from the glyphs on the globe.
// Row i always describes m.tableGlyphs[i].
func (m *Model) refreshCityTable() {
	glyphs := m.globe.Glyphs()
	rows := make([]table.Row, 0, len(glyphs))
	for i, g := range glyphs {
		meta := g.Metadata()
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			meta.Name,
			meta.Country,
			m.printer.Sprintf("%d", meta.Population),
			fmt.Sprintf("%.2f", g.Latitude),
			fmt.Sprintf("%.2f", g.Longitude),
		})
	}
	m.tableGlyphs = glyphs
	m.tbl.SetRows(rows)
	if m.tbl.Cursor() >= len(rows) {
		m.tbl.SetCursor(0)
	}
}

// selectedCity is the glyph under the table cursor.
func (m Model) selectedCity() (*globe.Glyph, bool) {
	i := m.tbl.Cursor()
	if i < 0 || i >= len(m.tableGlyphs) {
		return nil, false
	}
	return m.tableGlyphs[i], true
}

func (m Model) tableWidth() int {
	w := 0
	for _, c := range m.tbl.Columns() {
		w += c.Width + 2
	}
	return w
}
