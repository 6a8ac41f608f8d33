package cards

import (
	"fmt"
	"sort"
	"strings"
)

// trailerLen is the number of bytes the reader appends after each UID
// (checksum and line terminator). They are dropped, not validated.
const trailerLen = 2

// Table maps tag identifiers to card codes. It is read-only once built.
type Table struct {
	entries map[string]string
}

// Decoded is the result of decoding one frame.
type Decoded struct {
	Identifier string
	Code       string
	State      CardState
}

// DefaultTable returns the table for the tagged scanner deck.
func DefaultTable() *Table {
	return NewTable(builtinEntries)
}

// NewTable builds a table from identifier → code entries. The map is copied.
func NewTable(entries map[string]string) *Table {
	t := &Table{entries: make(map[string]string, len(entries))}
	for id, code := range entries {
		t.entries[id] = code
	}
	return t
}

// WithOverrides returns a new table with overrides merged over t.
//
// Every override code must decode to a known card; identifiers are trimmed
// and upper-cased to match what the reader reports.
func (t *Table) WithOverrides(overrides map[string]string) (*Table, error) {
	merged := NewTable(t.entries)
	var errs []string

	for id, code := range overrides {
		id = strings.ToUpper(strings.TrimSpace(id))
		code = strings.ToUpper(strings.TrimSpace(code))
		if id == "" {
			errs = append(errs, "empty identifier")
			continue
		}
		if _, err := ParseCode(code); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		merged.entries[id] = code
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return nil, fmt.Errorf("invalid card overrides: %s", strings.Join(errs, "; "))
	}
	return merged, nil
}

// Lookup returns the code for an identifier.
func (t *Table) Lookup(identifier string) (string, bool) {
	code, ok := t.entries[identifier]
	return code, ok
}

// Len returns the number of identifiers in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Identifiers returns all identifiers in sorted order.
func (t *Table) Identifiers() []string {
	ids := make([]string, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Identify strips the reader trailer from a frame, returning the UID string.
func Identify(frame []byte) (string, error) {
	if len(frame) <= trailerLen {
		return "", fmt.Errorf("%w: %d bytes", ErrFrameTooShort, len(frame))
	}
	return string(frame[:len(frame)-trailerLen]), nil
}

// Decode turns a raw frame into a card.
//
// The returned error wraps ErrFrameTooShort, ErrUnknownIdentifier or
// ErrUnknownCode. On ErrUnknownCode the Decoded value still carries the
// identifier, the code and the partially decoded state.
func (t *Table) Decode(frame []byte) (Decoded, error) {
	id, err := Identify(frame)
	if err != nil {
		return Decoded{State: Unknown}, err
	}

	code, ok := t.entries[id]
	if !ok {
		return Decoded{Identifier: id, State: Unknown}, fmt.Errorf("%w: %q", ErrUnknownIdentifier, id)
	}

	state, err := ParseCode(code)
	return Decoded{Identifier: id, Code: code, State: state}, err
}

// ValidationResult holds the outcome of a table check.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether the check found no errors.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate checks that every code decodes and that the table covers a full
// 52-card deck. Missing cards are errors naming the code a new tag needs;
// a card reachable from more than one tag is a warning (a replaced tag whose
// old entry was kept).
func (t *Table) Validate() ValidationResult {
	var result ValidationResult
	seen := make(map[CardState][]string)

	for _, id := range t.Identifiers() {
		code := t.entries[id]
		state, err := ParseCode(code)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: code %q does not decode", id, code))
			continue
		}
		seen[state] = append(seen[state], id)
	}

	for _, suit := range Suits {
		for _, rank := range Ranks {
			card := CardState{Suit: suit, Rank: rank}
			ids := seen[card]
			switch {
			case len(ids) == 0:
				result.Errors = append(result.Errors, fmt.Sprintf("%s has no tag (code %s)", card, card.Code()))
			case len(ids) > 1:
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s is mapped from %d tags: %s", card, len(ids), strings.Join(ids, ", ")))
			}
		}
	}

	return result
}
