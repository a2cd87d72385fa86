package tui

import (
	"context"
	"os"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"globeview/internal/cities"
	"globeview/internal/config"
	"globeview/internal/globe"
	"globeview/internal/logging"
)

// Recorder is the metrics sink of the viewer. *metrics.Manager satisfies it.
type Recorder interface {
	globe.Recorder
	RecordsLoaded(n int)
	RecordsRejected(n int)
	FetchFailed()
}

type nopRecorder struct{}

func (nopRecorder) GlyphsBuilt(int)            {}
func (nopRecorder) FrameRendered()             {}
func (nopRecorder) HoverChanged()              {}
func (nopRecorder) PickObserved(time.Duration) {}
func (nopRecorder) RecordsLoaded(int)          {}
func (nopRecorder) RecordsRejected(int)        {}
func (nopRecorder) FetchFailed()               {}

// Deps are the collaborators a Model needs.
type Deps struct {
	Config  *config.Config
	Logger  logging.Logger
	Metrics Recorder
	Fetcher *cities.Fetcher
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	status  string
	loading bool

	cfg     *config.Config
	log     logging.Logger
	rec     Recorder
	fetcher *cities.Fetcher
	ctx     context.Context
	printer *message.Printer

	globe *globe.Globe

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// city table
	showCities  bool
	tbl         table.Model
	tableGlyphs []*globe.Glyph
}

func New(deps Deps) Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.New()
	}
	log := deps.Logger
	if log == nil {
		log = logging.Noop()
	}
	rec := deps.Metrics
	if rec == nil {
		rec = nopRecorder{}
	}
	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = &cities.Fetcher{}
	}

	m := Model{
		helpVisible: true,
		status:      "globeview ready",
		cfg:         cfg,
		log:         log,
		rec:         rec,
		fetcher:     fetcher,
		ctx:         context.Background(),
		printer:     message.NewPrinter(language.English),
		selPath:     cfg.DataSource,
	}

	material, err := globe.LoadMaterial(cfg.TexturePath)
	if err != nil {
		m.log.Warn(m.ctx, "texture unavailable, using flat material",
			logging.String("path", cfg.TexturePath), logging.Error(err))
	}
	m.globe = globe.New(globeOptions(cfg, material, rec, log))

	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "City sources"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = `Paste a JSON array of cities, e.g. [{"name":"Paris","country":"France","population":2148000,"latitude":48.85,"longitude":2.35}]. Enter loads; Esc cancels.`
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true), table.WithColumns(cityColumns()))
	m.tbl.SetHeight(12)
	m.refreshDir()
	// Init fetches DataSource right away.
	if cfg.DataSource != "" {
		m.loading = true
		m.status = "loading: " + cfg.DataSource
	}
	return m
}

func globeOptions(cfg *config.Config, material globe.Material, rec globe.Recorder, log logging.Logger) globe.Options {
	opts := globe.NewOptions(cfg)
	opts.Material = material
	opts.Recorder = rec
	opts.Logger = log
	return opts
}

// Init starts the frame loop and the city fetch together; the globe is
// interactive while the fetch is in flight.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.loadCmd(m.cfg.DataSource))
}

type frameMsg time.Time

type loadedMsg struct {
	source string
	batch  cities.Batch
	err    error
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.FrameInterval(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) loadCmd(source string) tea.Cmd {
	if source == "" {
		return nil
	}
	fetcher, ctx := m.fetcher, m.ctx
	return func() tea.Msg {
		batch, err := fetcher.Fetch(ctx, source)
		return loadedMsg{source: source, batch: batch, err: err}
	}
}
