// Package cards maps NFC tag identifiers to playing cards.
//
// Every physical card in the scanner deck carries an NFC tag. The reader
// reports the tag UID as an ASCII string; this package looks the UID up in
// an identifier table and turns the resulting two-character code into a
// suit/rank pair.
//
// # Codes
//
// A code is two characters: the first selects the suit, the second the rank.
//
//	1 CLUBS     1 ACE ... 9 NINE
//	2 SPADES    A TEN
//	3 DIAMONDS  B JACK
//	4 HEARTS    C QUEEN
//	            D KING
//
// Any other character decodes to UNKNOWN for that field. A CardState with
// either field UNKNOWN is never forwarded to the game service.
//
// # Usage
//
//	table := cards.DefaultTable()
//	decoded, err := table.Decode(frame)
//	if err != nil {
//	    return // unknown tag or unreadable code, drop the frame
//	}
//	fmt.Println(decoded.State) // "FIVE of HEARTS"
//
// # Thread Safety
//
// A Table is immutable after construction and safe for concurrent reads.
package cards
