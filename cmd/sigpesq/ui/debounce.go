package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// debounceSeq hands out process-unique IDs so independent debouncers never
// swallow each other's ticks.
var debounceSeq atomic.Int64

// DebounceFiredMsg is delivered when a debounce window elapses. Only the
// owning Debounce instance (matched by ID) with an up-to-date generation
// treats it as a commit; stale ticks are ignored.
type DebounceFiredMsg struct {
	ID  int64
	Gen int64
}

// Debounce coalesces rapid events into a single commit after a quiet
// interval. Every Touch restarts the window by bumping the generation; a
// tick that arrives carrying an old generation is stale and dropped. This
// keeps the whole mechanism inside the update loop, no timers to cancel.
type Debounce struct {
	id       int64
	gen      int64
	interval time.Duration
}

// NewDebounce creates a debouncer with the given quiet interval.
func NewDebounce(interval time.Duration) Debounce {
	return Debounce{id: debounceSeq.Add(1), interval: interval}
}

// Touch restarts the quiet window and returns the command that will deliver
// the (possibly stale) DebounceFiredMsg.
func (d *Debounce) Touch() tea.Cmd {
	d.gen++
	id, gen := d.id, d.gen
	return tea.Tick(d.interval, func(time.Time) tea.Msg {
		return DebounceFiredMsg{ID: id, Gen: gen}
	})
}

// Fired reports whether msg is this debouncer's current-generation tick.
func (d *Debounce) Fired(msg DebounceFiredMsg) bool {
	return msg.ID == d.id && msg.Gen == d.gen
}
