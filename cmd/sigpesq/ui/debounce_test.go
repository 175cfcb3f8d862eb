package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDebounceStaleTickIgnored(t *testing.T) {
	d := NewDebounce(50 * time.Millisecond)

	d.Touch()
	stale := DebounceFiredMsg{ID: d.id, Gen: d.gen}

	// A second Touch supersedes the first window.
	d.Touch()

	if d.Fired(stale) {
		t.Error("Stale generation must not fire")
	}
	current := DebounceFiredMsg{ID: d.id, Gen: d.gen}
	if !d.Fired(current) {
		t.Error("Current generation must fire")
	}
}

func TestDebounceIndependentInstances(t *testing.T) {
	a := NewDebounce(50 * time.Millisecond)
	b := NewDebounce(50 * time.Millisecond)

	a.Touch()
	b.Touch()

	if a.Fired(DebounceFiredMsg{ID: b.id, Gen: b.gen}) {
		t.Error("A debouncer must not accept another instance's tick")
	}
}

func TestDebounceTickCarriesGeneration(t *testing.T) {
	d := NewDebounce(time.Millisecond)

	cmd := d.Touch()
	msg := cmd()

	fired, ok := msg.(DebounceFiredMsg)
	if !ok {
		t.Fatalf("Expected DebounceFiredMsg, got %T", msg)
	}
	if !d.Fired(fired) {
		t.Error("Tick from the latest Touch must fire")
	}
}

func TestSearchBarCommitsLastValueOnly(t *testing.T) {
	sb := NewSearchBar("buscar", 50*time.Millisecond)
	sb, _ = sb.Focus()

	// Burst of keystrokes: each restarts the window.
	for _, r := range "ana" {
		sb, _ = sb.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	if sb.Query() != "" {
		t.Errorf("Query must not commit before the window closes, got %q", sb.Query())
	}

	// Tick from the first keystroke is stale by now.
	stale := DebounceFiredMsg{ID: sb.debounce.id, Gen: sb.debounce.gen - 2}
	sb, cmd := sb.Update(stale)
	if cmd != nil || sb.Query() != "" {
		t.Error("Stale tick must not commit the query")
	}

	// The last keystroke's tick commits the full value.
	current := DebounceFiredMsg{ID: sb.debounce.id, Gen: sb.debounce.gen}
	sb, cmd = sb.Update(current)
	if sb.Query() != "ana" {
		t.Errorf("Expected committed query %q, got %q", "ana", sb.Query())
	}
	if cmd == nil {
		t.Fatal("Commit must emit QueryChangedMsg")
	}
	changed, ok := cmd().(QueryChangedMsg)
	if !ok {
		t.Fatalf("Expected QueryChangedMsg, got %T", cmd())
	}
	if changed.Query != "ana" || !sb.Owns(changed) {
		t.Errorf("Unexpected commit %+v", changed)
	}
}

func TestSearchBarReset(t *testing.T) {
	sb := NewSearchBar("buscar", 50*time.Millisecond)
	sb, _ = sb.Focus()
	sb, _ = sb.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	sb, _ = sb.Update(DebounceFiredMsg{ID: sb.debounce.id, Gen: sb.debounce.gen})

	if sb.Query() != "x" {
		t.Fatalf("Setup failed, query %q", sb.Query())
	}

	sb = sb.Reset()
	if sb.Query() != "" {
		t.Errorf("Reset must clear the committed query, got %q", sb.Query())
	}
}
