package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// QueryChangedMsg carries the committed search text after the debounce
// window closes. Pages re-filter on this, never on raw keystrokes.
type QueryChangedMsg struct {
	ID    int64
	Query string
}

// SearchBar is a debounced free-text filter input. The visible text updates
// on every keystroke, but the query only commits after the user stops
// typing for the configured interval, so a burst of keystrokes yields a
// single filter pass over the last value.
type SearchBar struct {
	input    textinput.Model
	debounce Debounce
	query    string
}

// NewSearchBar creates a search bar with the given placeholder and debounce
// interval.
func NewSearchBar(placeholder string, interval time.Duration) SearchBar {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	ti.CharLimit = 120
	return SearchBar{input: ti, debounce: NewDebounce(interval)}
}

// Focus puts the cursor in the input.
func (s SearchBar) Focus() (SearchBar, tea.Cmd) {
	cmd := s.input.Focus()
	return s, cmd
}

// Blur removes focus from the input.
func (s SearchBar) Blur() SearchBar {
	s.input.Blur()
	return s
}

// Focused reports whether the input has the cursor.
func (s SearchBar) Focused() bool {
	return s.input.Focused()
}

// Query returns the committed query, which may lag the visible text by one
// debounce window.
func (s SearchBar) Query() string {
	return s.query
}

// Reset clears both the visible text and the committed query.
func (s SearchBar) Reset() SearchBar {
	s.input.SetValue("")
	s.query = ""
	return s
}

// Update advances the input. Keystrokes that change the text restart the
// debounce window; the matching DebounceFiredMsg commits the current value
// and emits QueryChangedMsg.
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	switch msg := msg.(type) {
	case DebounceFiredMsg:
		if !s.debounce.Fired(msg) {
			return s, nil
		}
		s.query = s.input.Value()
		id, q := s.debounce.id, s.query
		return s, func() tea.Msg { return QueryChangedMsg{ID: id, Query: q} }

	case tea.KeyMsg:
		before := s.input.Value()
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		if s.input.Value() != before {
			return s, tea.Batch(cmd, s.debounce.Touch())
		}
		return s, cmd
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// Owns reports whether a QueryChangedMsg came from this search bar.
func (s SearchBar) Owns(msg QueryChangedMsg) bool {
	return msg.ID == s.debounce.id
}

// View renders the input.
func (s SearchBar) View(styles Styles) string {
	return styles.Body.Render(s.input.View())
}
