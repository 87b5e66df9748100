package notice

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestViewAndQuit(t *testing.T) {
	n := New("CogniQuest", "open journal: permission denied")

	if got := n.Title(); got != "CogniQuest" {
		t.Errorf("Title() = %q", got)
	}
	if view := n.View(80, 10); !strings.Contains(view, "permission denied") {
		t.Errorf("view missing message:\n%s", view)
	}

	if _, cmd := n.Update(tea.WindowSizeMsg{Width: 80, Height: 24}); cmd != nil {
		t.Error("non-key messages should be ignored")
	}
	_, cmd := n.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd == nil {
		t.Fatal("a key press should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
