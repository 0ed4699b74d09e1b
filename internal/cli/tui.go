package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pagepack/pkg/placement"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PageBrowserModel - Interactive page browser
// =============================================================================

// PageBrowserModel is the bubbletea model for stepping through packed pages.
type PageBrowserModel struct {
	Pages  [][]placement.Placement
	Page   int
	Cursor int
}

// NewPageBrowserModel creates a browser positioned on the first page.
func NewPageBrowserModel(pages [][]placement.Placement) PageBrowserModel {
	return PageBrowserModel{Pages: pages}
}

func (m PageBrowserModel) Init() tea.Cmd {
	return nil
}

func (m PageBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "pgup":
			if m.Page > 0 {
				m.Page--
				m.Cursor = 0
			}
		case "right", "l", "pgdown", " ":
			if m.Page < len(m.Pages)-1 {
				m.Page++
				m.Cursor = 0
			}
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.current())-1 {
				m.Cursor++
			}
		}
	}
	return m, nil
}

func (m PageBrowserModel) current() []placement.Placement {
	if m.Page < 0 || m.Page >= len(m.Pages) {
		return nil
	}
	return m.Pages[m.Page]
}

func (m PageBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Page %d of %d", m.Page+1, len(m.Pages))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→: page  ↑/↓: image  q: quit"))
	b.WriteString("\n\n")

	items := m.current()
	if len(items) == 0 {
		b.WriteString(listDimStyle.Render("  no images"))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, len(items))
	for i, p := range items {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}
		rot := ""
		if p.Rotated {
			rot = iconRotated
		}
		rows[i] = []string{cursor, p.Item.Image.Name(), p.Item.Rect.String(), rot}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Image", "Rect (px)", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 {
				return styleHeader
			}
			if row == m.Cursor {
				return listSelectedStyle
			}
			if col == 3 {
				return styleRotated
			}
			return listNormalStyle
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	sel := items[m.Cursor]
	d := sel.Item.Image
	b.WriteString(listSelectedStyle.Render(d.Path))
	b.WriteString("\n")
	detail := fmt.Sprintf("  source %dx%d px · drawn %dx%d px · at %s, %s · %s x %s",
		d.SourceWidth, d.SourceHeight, d.ContentWidth, d.ContentHeight,
		sel.X, sel.Y, sel.Width, sel.Height)
	b.WriteString(listDimStyle.Render(detail))
	b.WriteString("\n")
	if sel.Rotated {
		b.WriteString(styleRotated.Render("  " + iconRotated + " turned 90° clockwise"))
		b.WriteString("\n")
	}

	return b.String()
}
