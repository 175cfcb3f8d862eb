package ui

// Selector is a cycling categorical filter. The first option is always the
// "all" sentinel; Selection returns empty for it so it can feed straight
// into a filter predicate that treats empty as no constraint.
type Selector struct {
	Label   string
	options []string
	index   int
}

// NewSelector creates a selector whose first option is the given sentinel
// ("Todos", "Todas", ...) followed by the concrete choices.
func NewSelector(label, all string, options []string) Selector {
	return Selector{Label: label, options: append([]string{all}, options...)}
}

// SetOptions replaces the concrete choices, keeping the sentinel and
// resetting to it. Used when the choices come from a server load.
func (s Selector) SetOptions(options []string) Selector {
	s.options = append(s.options[:1:1], options...)
	s.index = 0
	return s
}

// Next advances to the following option, wrapping around.
func (s Selector) Next() Selector {
	if len(s.options) > 0 {
		s.index = (s.index + 1) % len(s.options)
	}
	return s
}

// Selection returns the chosen option, empty when the sentinel is active.
func (s Selector) Selection() string {
	if s.index == 0 {
		return ""
	}
	return s.options[s.index]
}

// View renders the label and current choice.
func (s Selector) View(styles Styles) string {
	if len(s.options) == 0 {
		return ""
	}
	current := s.options[s.index]
	if s.index == 0 {
		return styles.Muted.Render(s.Label+": ") + styles.Muted.Render(current)
	}
	return styles.Muted.Render(s.Label+": ") + styles.Badge.Render(current)
}
