package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stackup/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle       = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// InspectModel - Interactive layer stack browser
// =============================================================================

// inspectView selects the table shown by the inspector.
type inspectView int

const (
	viewLayers inspectView = iota
	viewNets
)

// InspectModel is the bubbletea model for browsing a board's layer stack
// and nets. Layers are listed top of the board first.
type InspectModel struct {
	Summary pipeline.Summary
	Mode    inspectView
	Cursor  int
	Height  int
	Offset  int
}

// NewInspectModel creates an inspector positioned on the top layer.
func NewInspectModel(s pipeline.Summary) InspectModel {
	return InspectModel{Summary: s, Height: 15}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

// rows returns the number of rows in the current view.
func (m InspectModel) rows() int {
	if m.Mode == viewNets {
		return len(m.Summary.Nets)
	}
	return len(m.Summary.Layers)
}

// layerAt maps a display row to a layer, top of the board first.
func (m InspectModel) layerAt(row int) pipeline.LayerSummary {
	return m.Summary.Layers[len(m.Summary.Layers)-1-row]
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.Mode == viewLayers {
				m.Mode = viewNets
			} else {
				m.Mode = viewLayers
			}
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.rows()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	s := m.Summary
	b.WriteString(StyleTitle.Render(s.Name))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%.2f × %.2f mm · %.3f mm thick · %d vias",
		s.Width, s.Height, s.Thickness, s.Vias)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab layers/nets  q quit"))
	b.WriteString("\n\n")

	if m.rows() == 0 {
		b.WriteString(listDimStyle.Render("  (none)"))
		b.WriteString("\n")
		return b.String()
	}

	if m.Mode == viewNets {
		b.WriteString(m.netTable())
	} else {
		b.WriteString(m.layerTable())
	}
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, m.rows())))

	return b.String()
}

func (m InspectModel) window() (int, int) {
	end := m.Offset + m.Height
	if end > m.rows() {
		end = m.rows()
	}
	return m.Offset, end
}

func (m InspectModel) layerTable() string {
	start, end := m.window()
	var rows [][]string
	for i := start; i < end; i++ {
		l := m.layerAt(i)
		rows = append(rows, []string{
			cursorMark(i == m.Cursor),
			strconv.Itoa(l.Index),
			l.Name,
			l.Kind,
			fmt.Sprintf("%.3f", l.Z),
			fmt.Sprintf("%.3f", l.Thickness),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Layer", "Kind", "Z (mm)", "Thick (mm)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := start + row
			if idx >= end {
				return lipgloss.NewStyle()
			}
			style := lipgloss.NewStyle()
			if col == 3 {
				style = kindStyle(m.layerAt(idx).Kind)
			}
			if idx == m.Cursor {
				return style.Bold(true)
			}
			return style
		})
	return t.Render()
}

func (m InspectModel) netTable() string {
	start, end := m.window()
	var rows [][]string
	for i := start; i < end; i++ {
		n := m.Summary.Nets[i]
		rows = append(rows, []string{
			cursorMark(i == m.Cursor),
			n.Name,
			joinInts(n.Layers),
			strconv.Itoa(n.Shapes),
			strconv.Itoa(n.Vias),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Net", "Copper", "Shapes", "Vias").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if start+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// detail describes the selected row.
func (m InspectModel) detail() string {
	if m.Mode == viewNets {
		n := m.Summary.Nets[m.Cursor]
		return fmt.Sprintf("  %s  %s",
			listSelectedStyle.Render(n.Name),
			listDimStyle.Render(fmt.Sprintf("copper layers %s · %d shapes · %d vias", joinInts(n.Layers), n.Shapes, n.Vias)))
	}
	l := m.layerAt(m.Cursor)
	return fmt.Sprintf("  %s  %s",
		kindStyle(l.Kind).Bold(true).Render(l.Name),
		listDimStyle.Render(fmt.Sprintf("z %.3f to %.3f mm · %.2f mm² covered", l.Z, l.Z+l.Thickness, l.Area)))
}

// =============================================================================
// Helpers
// =============================================================================

func cursorMark(current bool) string {
	if current {
		return "▸"
	}
	return " "
}

func joinInts(v []int) string {
	if len(v) == 0 {
		return "—"
	}
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
