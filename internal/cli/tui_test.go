package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/algoreel/pkg/encode"
	"github.com/matzehuels/algoreel/pkg/scene"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSceneListModel(t *testing.T) {
	defs := scene.All()
	var m tea.Model = NewSceneListModel(defs, map[string][]float64{"bst": {5, 3, 8}})

	m, _ = m.Update(key("up")) // clamps at the top
	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("k"))

	view := m.View()
	if !strings.Contains(view, "Select Scene") || !strings.Contains(view, "5, 3, 8") {
		t.Errorf("view:\n%s", view)
	}

	m, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Error("enter should quit the program")
	}
	got := m.(SceneListModel).Selected
	if got == nil || got.Name != defs[1].Name {
		t.Errorf("selected %v, want %s", got, defs[1].Name)
	}
}

func TestSceneListModelQuit(t *testing.T) {
	var m tea.Model = NewSceneListModel(scene.All(), nil)
	m, cmd := m.Update(key("q"))
	if cmd == nil || m.(SceneListModel).Selected != nil {
		t.Error("q should quit without a selection")
	}
}

func TestQualityListModel(t *testing.T) {
	var m tea.Model = NewQualityListModel(encode.Qualities(), "h")
	if c := m.(QualityListModel).Cursor; c != 2 {
		t.Fatalf("cursor starts at %d, want the current quality", c)
	}
	for range 5 {
		m, _ = m.Update(key("down"))
	}
	m, _ = m.Update(key("enter"))
	got := m.(QualityListModel).Selected
	if got == nil || got.Name != "k" {
		t.Errorf("selected %v, want k", got)
	}
	if !strings.Contains(m.View(), "3840x2160") {
		t.Errorf("view:\n%s", m.View())
	}
}
