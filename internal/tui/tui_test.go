package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"globeview/internal/cities"
	"globeview/internal/config"
	"globeview/internal/globe"
)

const citiesJSON = `[
  {"name": "Quito", "country": "Ecuador", "population": "2011388", "latitude": 0, "longitude": -90},
  {"name": "Tokyo", "countryname": "Japan", "population": 13960000, "latitude": 35.68, "longitude": 139.69},
  {"name": "Broken", "country": "Nowhere", "population": "abc", "latitude": 1, "longitude": 1}
]`

// newTestModel sizes an 81x24 terminal: the map is 81x21 cells, so cell
// (40, 10) of the map, screen (40, 11), sits on the exact screen center.
func newTestModel(t *testing.T, source string) Model {
	return newTestModelWith(t, source, nil)
}

func newTestModelWith(t *testing.T, source string, tweak func(*config.Config)) Model {
	cfg := config.New()
	cfg.DataSource = source
	cfg.TexturePath = filepath.Join(t.TempDir(), "missing.jpg")
	if tweak != nil {
		tweak(cfg)
	}
	m := New(Deps{Config: cfg})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 81, Height: 24})
	return next.(Model)
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func writeCities(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "location.json")
	if err := os.WriteFile(path, []byte(citiesJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestModelLoading(t *testing.T) {
	convey.Convey("Given a model pointed at a city file", t, func() {
		path := writeCities(t)
		m := newTestModel(t, path)

		convey.Convey("Then the header shows the startup fetch in flight", func() {
			convey.So(m.loading, convey.ShouldBeTrue)
			convey.So(m.View(), convey.ShouldContainSubstring, "· loading")
		})

		convey.Convey("When the initial load completes", func() {
			m, _ = update(m, m.loadCmd(path)())

			convey.Convey("Then valid cities become glyphs and the bad one is skipped", func() {
				convey.So(m.globe.Glyphs(), convey.ShouldHaveLength, 2)
				convey.So(m.status, convey.ShouldContainSubstring, "loaded 2 cities")
				convey.So(m.status, convey.ShouldContainSubstring, "(1 skipped)")
				convey.So(m.loading, convey.ShouldBeFalse)
			})

			convey.Convey("When the pointer rests on the city facing the camera", func() {
				m, _ = update(m, tea.MouseMsg{X: 40, Y: 11, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})

				convey.Convey("Then the tooltip shows its details", func() {
					hover := m.globe.Hover()
					convey.So(hover.Hit, convey.ShouldBeTrue)
					convey.So(hover.Metadata.Name, convey.ShouldEqual, "Quito")

					view := m.View()
					convey.So(view, convey.ShouldContainSubstring, "Quito")
					convey.So(view, convey.ShouldContainSubstring, "Country: Ecuador")
					convey.So(view, convey.ShouldContainSubstring, "Population: 2,011,388")
					convey.So(view, convey.ShouldContainSubstring, "lon=-90.000")
				})

				convey.Convey("Then moving off the globe hides it", func() {
					m, _ = update(m, tea.MouseMsg{X: 0, Y: 1, Action: tea.MouseActionMotion})
					convey.So(m.globe.Hover().Hit, convey.ShouldBeFalse)
					convey.So(m.View(), convey.ShouldNotContainSubstring, "Country: Ecuador")
				})
			})

			convey.Convey("When a city is chosen from the table", func() {
				m, _ = update(m, keyRunes("a"))
				convey.So(m.showCities, convey.ShouldBeTrue)
				convey.So(m.tableGlyphs, convey.ShouldHaveLength, 2)

				m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
				m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})

				convey.Convey("Then the globe turns to it", func() {
					convey.So(m.showCities, convey.ShouldBeFalse)
					convey.So(m.status, convey.ShouldEqual, "focused: Tokyo")
					tokyo := m.globe.Glyphs()[1]
					dir := m.globe.Scene().WorldPosition(tokyo).Normalize()
					convey.So(dir.Z(), convey.ShouldAlmostEqual, 1, 1e-9)
				})
			})
		})

		convey.Convey("When JSON is pasted", func() {
			m, _ = update(m, keyRunes("p"))
			convey.So(m.pasteMode, convey.ShouldBeTrue)
			m.ta.SetValue(`[{"name":"Lima","country":"Peru","population":9751000,"latitude":-12.05,"longitude":-77.04}]`)
			m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})

			convey.Convey("Then it replaces the cities", func() {
				convey.So(m.pasteMode, convey.ShouldBeFalse)
				convey.So(m.globe.Glyphs(), convey.ShouldHaveLength, 1)
				convey.So(m.status, convey.ShouldContainSubstring, "loaded 1 cities from <paste>")
			})
		})
	})
}

func TestModelWithoutData(t *testing.T) {
	convey.Convey("Given a model whose data source is missing", t, func() {
		missing := filepath.Join(t.TempDir(), "nope.json")
		m := newTestModel(t, missing)
		m, _ = update(m, m.loadCmd(missing)())

		convey.Convey("Then the failure is reported and no glyphs exist", func() {
			convey.So(m.status, convey.ShouldStartWith, "load failed")
			convey.So(m.globe.Glyphs(), convey.ShouldBeEmpty)
			convey.So(m.View(), convey.ShouldContainSubstring, "load failed")
		})

		convey.Convey("Then the globe still drags and zooms", func() {
			m, _ = update(m, tea.MouseMsg{X: 40, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
			m, _ = update(m, tea.MouseMsg{X: 50, Y: 11, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
			m, _ = update(m, tea.MouseMsg{X: 50, Y: 11, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
			yaw, _ := m.globe.Scene().Angles()
			convey.So(yaw, convey.ShouldAlmostEqual, 10*m.cfg.DragSensitivity, 1e-12)
			convey.So(m.globe.Dragging(), convey.ShouldBeFalse)

			m, _ = update(m, tea.MouseMsg{X: 40, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
			convey.So(m.globe.Camera().TargetDistance(), convey.ShouldAlmostEqual, 4, 1e-12)

			var cmd tea.Cmd
			m, cmd = update(m, frameMsg(time.Now()))
			convey.So(cmd, convey.ShouldNotBeNil)
			convey.So(m.globe.Camera().Distance(), convey.ShouldAlmostEqual, 3.1, 1e-12)
		})

		convey.Convey("Then keys zoom, turn and reset", func() {
			m, _ = update(m, keyRunes("+"))
			convey.So(m.globe.Camera().TargetDistance(), convey.ShouldAlmostEqual, 2, 1e-12)
			m, _ = update(m, tea.KeyMsg{Type: tea.KeyRight})
			yaw, _ := m.globe.Scene().Angles()
			convey.So(yaw, convey.ShouldAlmostEqual, arrowStep, 1e-12)
			m, _ = update(m, keyRunes("r"))
			yaw, pitch := m.globe.Scene().Angles()
			convey.So(yaw, convey.ShouldEqual, 0.0)
			convey.So(pitch, convey.ShouldEqual, 0.0)
			convey.So(m.globe.Camera().TargetDistance(), convey.ShouldEqual, m.cfg.InitialDistance)
		})

		convey.Convey("Then the city table refuses to open", func() {
			m, _ = update(m, keyRunes("a"))
			convey.So(m.showCities, convey.ShouldBeFalse)
			convey.So(m.status, convey.ShouldEqual, "no cities loaded")
		})
	})
}

func TestDrawOrderKeepsHoveredGlyphOnTop(t *testing.T) {
	convey.Convey("Given a highlight that changes neither color nor size", t, func() {
		m := newTestModelWith(t, "", func(cfg *config.Config) {
			cfg.HighlightFactor = 1
			cfg.HighlightScale = 1
		})
		batch, err := cities.DecodeJSONString(`[
			{"name": "Quito", "country": "Ecuador", "population": 2011388, "latitude": 0, "longitude": -90},
			{"name": "Side", "country": "Nowhere", "population": 1000000, "latitude": 0, "longitude": -60}
		]`)
		convey.So(err, convey.ShouldBeNil)
		convey.So(m.loading, convey.ShouldBeFalse)
		m.applyBatch("test", batch, nil)
		quito, side := m.globe.Glyphs()[0], m.globe.Glyphs()[1]

		convey.Convey("When the farther city is hovered", func() {
			scene := m.globe.Scene()
			at, ok := scene.Camera.ToScreen(scene.WorldPosition(side))
			convey.So(ok, convey.ShouldBeTrue)
			res := m.globe.PointerMove(at.X(), at.Y())

			convey.Convey("Then it is drawn last, over the nearer one", func() {
				convey.So(res.Glyph, convey.ShouldEqual, side)
				convey.So(m.globe.Highlighted(), convey.ShouldEqual, side)
				order := m.drawOrder()
				convey.So(order, convey.ShouldHaveLength, 2)
				convey.So(order[0], convey.ShouldEqual, quito)
				convey.So(order[1], convey.ShouldEqual, side)
			})
		})
	})
}

func TestTooltip(t *testing.T) {
	convey.Convey("Given city metadata", t, func() {
		p := message.NewPrinter(language.English)
		lines := tooltipLines(globe.Metadata{Name: "Tokyo", Country: "Japan", Population: 13960000}, p)

		convey.Convey("Then the card lists name, country and grouped population", func() {
			convey.So(lines, convey.ShouldResemble, []string{"Tokyo", "Country: Japan", "Population: 13,960,000"})
		})

		convey.Convey("Then a card near the edge is pulled back inside", func() {
			cv := newCanvas(30, 6)
			drawTooltip(cv, 25, 4, lines)
			out := strings.Split(cv.String(), "\n")
			convey.So(out, convey.ShouldHaveLength, 6)
			convey.So(strings.Join(out, "\n"), convey.ShouldContainSubstring, "Population: 13,960,000")
			// 26 wide and 5 tall, so the corner lands at (30-26, 6-5).
			convey.So(cv.at(4, 1).ch, convey.ShouldEqual, '╭')
			convey.So(cv.at(29, 5).ch, convey.ShouldEqual, '╯')
			convey.So(cv.at(6, 2).bold, convey.ShouldBeTrue)
			convey.So(cv.at(6, 3).bold, convey.ShouldBeFalse)
		})
	})
}

func TestBraille(t *testing.T) {
	convey.Convey("Given a one cell braille buffer", t, func() {
		b := newBrailleBuf(1, 1)

		convey.Convey("Then dots map onto the braille block", func() {
			_, _, ok := b.at(0, 0)
			convey.So(ok, convey.ShouldBeFalse)
			b.setPixel(0, 0, globe.OceanBlue)
			b.setPixel(1, 3, globe.OceanBlue)
			r, col, ok := b.at(0, 0)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(r, convey.ShouldEqual, rune(0x2800+0x01+0x80))
			convey.So(col, convey.ShouldEqual, globe.OceanBlue)
		})

		convey.Convey("Then out of range dots are ignored", func() {
			b.setPixel(-1, 0, globe.OceanBlue)
			b.setPixel(2, 0, globe.OceanBlue)
			b.setPixel(0, 4, globe.OceanBlue)
			_, _, ok := b.at(0, 0)
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}
