package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/pagepack/pkg/images"
	"github.com/matzehuels/pagepack/pkg/packing"
	"github.com/matzehuels/pagepack/pkg/placement"
)

func browserPages() [][]placement.Placement {
	f := placement.Frame{Border: 3, DPI: 300}
	at := func(path string, w, h int, rect packing.Rect) placement.Placement {
		d := images.Describe(path, w, h, images.Limits{})
		return f.Resolve(packing.PlacedItem{Image: d, Rect: rect})
	}
	return [][]placement.Placement{
		{
			at("a.png", 40, 20, packing.Rect{W: 40, H: 20}),
			at("b.png", 40, 20, packing.Rect{Y: 20, W: 20, H: 40}),
		},
		{
			at("c.png", 10, 10, packing.Rect{W: 10, H: 10}),
		},
	}
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestPageBrowserNavigation(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		wantPage   int
		wantCursor int
	}{
		{"start", nil, 0, 0},
		{"down", []string{"down"}, 0, 1},
		{"down stops at last image", []string{"down", "down", "j"}, 0, 1},
		{"up stops at first image", []string{"up", "k"}, 0, 0},
		{"next page resets cursor", []string{"down", "right"}, 1, 0},
		{"next stops at last page", []string{"right", "l", "right"}, 1, 0},
		{"previous page", []string{"right", "left"}, 0, 0},
		{"previous stops at first page", []string{"h", "left"}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewPageBrowserModel(browserPages()), tt.keys...).(PageBrowserModel)
			if m.Page != tt.wantPage || m.Cursor != tt.wantCursor {
				t.Errorf("page, cursor = %d, %d; want %d, %d", m.Page, m.Cursor, tt.wantPage, tt.wantCursor)
			}
		})
	}
}

func TestPageBrowserQuit(t *testing.T) {
	m := NewPageBrowserModel(browserPages())
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%v: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v: command does not quit", k)
		}
	}
}

func TestPageBrowserView(t *testing.T) {
	m := press(NewPageBrowserModel(browserPages()), "down").(PageBrowserModel)
	view := m.View()
	for _, want := range []string{"Page 1 of 2", "a.png", "b.png", "turned 90° clockwise"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}

	m = press(m, "right").(PageBrowserModel)
	view = m.View()
	if !strings.Contains(view, "Page 2 of 2") || !strings.Contains(view, "c.png") {
		t.Errorf("second page view:\n%s", view)
	}
	if strings.Contains(view, "turned") {
		t.Errorf("unturned image shown as turned:\n%s", view)
	}

	empty := NewPageBrowserModel(nil).View()
	if !strings.Contains(empty, "no images") {
		t.Errorf("empty view:\n%s", empty)
	}
}
