package scanner

import "github.com/nerrad567/gray-logic-scanner/internal/cards"

// Debouncer suppresses repeat notifications for a card that is still on the
// reader.
//
// It remembers the last accepted CardState, starting from cards.Unknown.
// Partially decoded states are never accepted and never replace the
// remembered state.
type Debouncer struct {
	last cards.CardState
}

// NewDebouncer creates a Debouncer with no card remembered.
func NewDebouncer() *Debouncer {
	return &Debouncer{last: cards.Unknown}
}

// Accept reports whether state should be notified. An accepted state becomes
// the remembered state immediately, before any notification is attempted,
// so a failed send is not retried by the next identical read.
func (d *Debouncer) Accept(state cards.CardState) bool {
	if !state.Known() || state == d.last {
		return false
	}
	d.last = state
	return true
}

// Last returns the remembered state.
func (d *Debouncer) Last() cards.CardState {
	return d.last
}
