package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"globeview/internal/logging"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// cityExts are the extensions the city decoders understand.
var cityExts = map[string]bool{".json": true, ".geojson": true, ".csv": true, ".kml": true}

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if cityExts[ext] {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no city files in current directory"
	}
}

// loadPath starts loading a city source; the result arrives as a loadedMsg.
func (m *Model) loadPath(p string) tea.Cmd {
	m.selPath = p
	m.loading = true
	m.status = "loading: " + filepath.Base(p)
	m.log.Info(m.ctx, "loading city source", logging.String("source", p))
	return m.loadCmd(p)
}
