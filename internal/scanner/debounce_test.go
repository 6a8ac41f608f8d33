package scanner

import (
	"testing"

	"github.com/nerrad567/gray-logic-scanner/internal/cards"
)

func TestDebouncer_Accept(t *testing.T) {
	spadesKing := cards.CardState{Suit: cards.SuitSpades, Rank: cards.RankKing}
	heartsFive := cards.CardState{Suit: cards.SuitHearts, Rank: cards.RankFive}
	partial := cards.CardState{Suit: cards.SuitHearts, Rank: cards.RankUnknown}

	steps := []struct {
		state    cards.CardState
		want     bool
		wantLast cards.CardState
	}{
		{cards.Unknown, false, cards.Unknown},
		{spadesKing, true, spadesKing},
		{spadesKing, false, spadesKing},
		{partial, false, spadesKing},
		{spadesKing, false, spadesKing},
		{heartsFive, true, heartsFive},
		{spadesKing, true, spadesKing},
	}

	d := NewDebouncer()
	for i, step := range steps {
		if got := d.Accept(step.state); got != step.want {
			t.Errorf("step %d: Accept(%+v) = %v, want %v", i, step.state, got, step.want)
		}
		if d.Last() != step.wantLast {
			t.Errorf("step %d: Last() = %+v, want %+v", i, d.Last(), step.wantLast)
		}
	}
}

func TestDebouncer_StartsUnknown(t *testing.T) {
	if got := NewDebouncer().Last(); got != cards.Unknown {
		t.Errorf("Last() = %+v, want Unknown", got)
	}
}
