package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/algoreel/pkg/encode"
	"github.com/matzehuels/algoreel/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SceneListModel - Interactive scene selection
// =============================================================================

// SceneListModel is the bubbletea model for interactive scene selection.
type SceneListModel struct {
	Scenes   []scene.Definition
	Values   map[string][]float64 // dataset shown per scene name
	Cursor   int
	Selected *scene.Definition
}

// NewSceneListModel creates a new scene list model. values holds the
// dataset each scene will render with.
func NewSceneListModel(scenes []scene.Definition, values map[string][]float64) SceneListModel {
	return SceneListModel{Scenes: scenes, Values: values}
}

func (m SceneListModel) Init() tea.Cmd {
	return nil
}

func (m SceneListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Scenes)-1 {
				m.Cursor++
			}
		case "enter":
			def := m.Scenes[m.Cursor]
			m.Selected = &def
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SceneListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Scene"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(m.Scenes))
	for i, def := range m.Scenes {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, def.Name, def.Title, formatValues(m.Values[def.Name])})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Scene", "Title", "Values").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.Cursor {
				if col == 3 {
					return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
				}
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if m.Cursor < len(m.Scenes) {
		b.WriteString(listDimStyle.Render("  " + m.Scenes[m.Cursor].Description))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Scenes))))

	return b.String()
}

// =============================================================================
// QualityListModel - Interactive quality selection
// =============================================================================

// QualityListModel is the bubbletea model for interactive quality selection.
type QualityListModel struct {
	Qualities []encode.Quality
	Cursor    int
	Selected  *encode.Quality
}

// NewQualityListModel creates a quality list with the cursor on current.
func NewQualityListModel(qualities []encode.Quality, current string) QualityListModel {
	m := QualityListModel{Qualities: qualities}
	for i, q := range qualities {
		if q.Name == current {
			m.Cursor = i
		}
	}
	return m
}

func (m QualityListModel) Init() tea.Cmd {
	return nil
}

func (m QualityListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Qualities)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Qualities[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m QualityListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Quality"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, q := range m.Qualities {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s  %-15s %s", cursor, q.Name, q.Label,
			listDimStyle.Render(fmt.Sprintf("%dx%d @ %d fps", q.Width, q.Height, q.FPS)))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}
