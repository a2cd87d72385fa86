package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"globeview/internal/cities"
	"globeview/internal/logging"
)

// arrowStep is the rotation of one arrow key press, in radians.
const arrowStep = 0.1

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case frameMsg:
		m.globe.Frame()
		return m, m.tick()

	case loadedMsg:
		m.applyBatch(msg.source, msg.batch, msg.err)

	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if m.showCities {
			switch msg.String() {
			case "enter":
				if g, ok := m.selectedCity(); ok {
					m.globe.FocusOn(g)
					m.showCities = false
					m.status = "focused: " + g.Metadata().Name
					m.log.Debug(m.ctx, "focused city", logging.String("name", g.Metadata().Name),
						logging.Float64("lat", g.Latitude), logging.Float64("lon", g.Longitude))
				}
				return m, nil
			case "up", "down", "k", "j", "pgup", "pgdown", "home", "end":
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m.showCities = false
		case "+", "=":
			m.globe.Wheel(-m.cfg.WheelNotch)
			m.status = fmt.Sprintf("zoom target: %.2f", m.globe.Camera().TargetDistance())
		case "-", "_":
			m.globe.Wheel(m.cfg.WheelNotch)
			m.status = fmt.Sprintf("zoom target: %.2f", m.globe.Camera().TargetDistance())
		case "r":
			m.globe.ResetView(m.cfg.InitialDistance)
			m.status = "view reset"
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
			}
			m.resize()
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.status = "paste mode"
			return m, m.ta.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showCities = !m.showCities
			if m.showCities {
				m.refreshCityTable()
				if len(m.tableGlyphs) == 0 {
					m.showCities = false
					m.status = "no cities loaded"
				}
			}
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					return m, m.loadPath(it.path)
				}
			}
		case "up":
			if !m.showSidebar {
				m.globe.Rotate(0, -arrowStep)
			}
		case "down":
			if !m.showSidebar {
				m.globe.Rotate(0, arrowStep)
			}
		case "left":
			m.globe.Rotate(-arrowStep, 0)
		case "right":
			m.globe.Rotate(arrowStep, 0)
		}

	case tea.MouseMsg:
		m.updateMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.ta.Value())
		if text == "" {
			m.status = "paste: empty"
			return m, nil
		}
		batch, err := cities.DecodeJSONString(text)
		m.pasteMode = false
		m.ta.Blur()
		m.selPath = ""
		m.applyBatch("<paste>", batch, err)
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// updateMouse feeds the globe one pointer event. Drags keep going when the
// pointer leaves the map, the way document-level listeners would.
func (m *Model) updateMouse(msg tea.MouseMsg) {
	lo := m.layout()
	inside := lo.contains(msg.X, msg.Y)
	cellX, cellY := msg.X-lo.mapX, msg.Y-lo.mapY
	px, py := pointer(cellX, cellY, m.cfg.CellAspect)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		if inside {
			m.globe.Wheel(-m.cfg.WheelNotch)
		}
		return
	case msg.Button == tea.MouseButtonWheelDown:
		if inside {
			m.globe.Wheel(m.cfg.WheelNotch)
		}
		return
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if inside && !m.pasteMode && !m.showCities {
			m.globe.PointerDown(px, py)
		}
	case msg.Action == tea.MouseActionRelease:
		m.globe.PointerUp(px, py)
	case msg.Action == tea.MouseActionMotion:
		if inside || m.globe.Dragging() {
			m.globe.PointerMove(px, py)
		}
	}

	if !inside {
		if !m.globe.Dragging() {
			m.globe.PointerLeave()
		}
		m.hovering, m.hoverHasGeo = false, false
		return
	}
	m.hovering = true
	m.hoverCellX, m.hoverCellY = cellX, cellY
	m.hoverLat, m.hoverLon, m.hoverHasGeo = m.globe.Scene().SurfaceAt(m.globe.NDC(px, py))
}

// resize hands the map area to the globe in pointer units.
func (m *Model) resize() {
	lo := m.layout()
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, lo.contentHeight-2)
	}
	m.globe.Resize(float64(lo.mapW), float64(lo.mapH)*m.cfg.CellAspect)
}

// applyBatch installs a decoded batch, or reports why there is none. A
// failed load leaves the globe empty but interactive.
func (m *Model) applyBatch(source string, batch cities.Batch, err error) {
	m.loading = false
	if err != nil {
		m.rec.FetchFailed()
		m.log.Error(m.ctx, "city load failed", logging.String("source", source), logging.Error(err))
		m.globe.SetGlyphs(nil)
		m.tableGlyphs = nil
		m.status = "load failed: " + err.Error()
		return
	}
	for _, rej := range batch.Rejected {
		m.log.Warn(m.ctx, "skipping city record", logging.String("source", source), logging.Error(rej))
	}
	rejected := m.globe.Load(m.ctx, batch.Records)
	accepted := len(batch.Records) - len(rejected)
	m.rec.RecordsLoaded(accepted)
	m.rec.RecordsRejected(len(batch.Rejected) + len(rejected))
	if m.showCities {
		m.refreshCityTable()
	}
	m.status = fmt.Sprintf("loaded %d cities from %s", accepted, source)
	if n := len(batch.Rejected) + len(rejected); n > 0 {
		m.status += fmt.Sprintf("  (%d skipped)", n)
	}
}
