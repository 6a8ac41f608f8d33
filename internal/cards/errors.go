package cards

import "errors"

// Domain errors for the cards package.
var (
	// ErrUnknownIdentifier is returned when a tag UID is not in the table.
	ErrUnknownIdentifier = errors.New("cards: unknown identifier")

	// ErrUnknownCode is returned when a code does not decode to a known
	// suit and rank.
	ErrUnknownCode = errors.New("cards: unknown card code")

	// ErrFrameTooShort is returned when a frame has no identifier bytes
	// left after the trailer is removed.
	ErrFrameTooShort = errors.New("cards: frame too short")
)
