package cards

import "fmt"

// Suit is the suit of a playing card as sent to the game service.
type Suit string

// Suits.
const (
	SuitUnknown  Suit = "UNKNOWN"
	SuitClubs    Suit = "CLUBS"
	SuitSpades   Suit = "SPADES"
	SuitDiamonds Suit = "DIAMONDS"
	SuitHearts   Suit = "HEARTS"
)

// Rank is the rank of a playing card as sent to the game service.
type Rank string

// Ranks.
const (
	RankUnknown Rank = "UNKNOWN"
	RankAce     Rank = "ACE"
	RankTwo     Rank = "TWO"
	RankThree   Rank = "THREE"
	RankFour    Rank = "FOUR"
	RankFive    Rank = "FIVE"
	RankSix     Rank = "SIX"
	RankSeven   Rank = "SEVEN"
	RankEight   Rank = "EIGHT"
	RankNine    Rank = "NINE"
	RankTen     Rank = "TEN"
	RankJack    Rank = "JACK"
	RankQueen   Rank = "QUEEN"
	RankKing    Rank = "KING"
)

// Suits lists the four known suits in code order.
var Suits = []Suit{SuitClubs, SuitSpades, SuitDiamonds, SuitHearts}

// Ranks lists the thirteen known ranks in code order.
var Ranks = []Rank{
	RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
	RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing,
}

// suitDigits maps the first code character to a suit.
var suitDigits = map[byte]Suit{
	'1': SuitClubs,
	'2': SuitSpades,
	'3': SuitDiamonds,
	'4': SuitHearts,
}

// rankDigits maps the second code character to a rank.
var rankDigits = map[byte]Rank{
	'1': RankAce,
	'2': RankTwo,
	'3': RankThree,
	'4': RankFour,
	'5': RankFive,
	'6': RankSix,
	'7': RankSeven,
	'8': RankEight,
	'9': RankNine,
	'A': RankTen,
	'B': RankJack,
	'C': RankQueen,
	'D': RankKing,
}

// SuitFromDigit returns the suit selected by a code character, or
// SuitUnknown.
func SuitFromDigit(c byte) Suit {
	if s, ok := suitDigits[c]; ok {
		return s
	}
	return SuitUnknown
}

// RankFromDigit returns the rank selected by a code character, or
// RankUnknown.
func RankFromDigit(c byte) Rank {
	if r, ok := rankDigits[c]; ok {
		return r
	}
	return RankUnknown
}

// IsRed reports whether the suit is hearts or diamonds.
func (s Suit) IsRed() bool {
	return s == SuitHearts || s == SuitDiamonds
}

// CardState is the decoded suit/rank pair of the card on the reader.
//
// It is a value type: compare with ==, replace wholesale.
// The JSON form is the scan request body the game service expects.
type CardState struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// Unknown is the state before any card has been decoded.
var Unknown = CardState{Suit: SuitUnknown, Rank: RankUnknown}

// Known reports whether both suit and rank were resolved.
func (c CardState) Known() bool {
	return c.Suit != SuitUnknown && c.Suit != "" &&
		c.Rank != RankUnknown && c.Rank != ""
}

// String returns the card as "RANK of SUIT", e.g. "KING of SPADES".
func (c CardState) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// ParseCode decodes a two-character code into a CardState.
//
// Characters outside the known sets decode to UNKNOWN for that field.
// The partially decoded state is always returned; the error is
// ErrUnknownCode whenever the result is not Known.
func ParseCode(code string) (CardState, error) {
	state := Unknown
	if len(code) > 0 {
		state.Suit = SuitFromDigit(code[0])
	}
	if len(code) > 1 {
		state.Rank = RankFromDigit(code[1])
	}

	if !state.Known() {
		return state, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	return state, nil
}

// Code returns the two-character code for a known state, or "" otherwise.
func (c CardState) Code() string {
	var suit, rank byte
	for d, s := range suitDigits {
		if s == c.Suit {
			suit = d
		}
	}
	for d, r := range rankDigits {
		if r == c.Rank {
			rank = d
		}
	}
	if suit == 0 || rank == 0 {
		return ""
	}
	return string([]byte{suit, rank})
}
