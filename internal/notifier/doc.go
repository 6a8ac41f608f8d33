// Package notifier delivers card state changes to the game service.
//
// One accepted card change is one HTTP POST to
// {base}/api/scanner/{game}/scan with body {"suit": "...", "rank": "..."}.
// There is no authentication, no retry and no idempotency key; a lost
// notification is recovered only by scanning a different card.
//
// Responses are classified and logged:
//
//	200  accepted     "Sent successfully"
//	400  rejected     response body logged verbatim
//	404  invalid_url  "Invalid URL" (usually an unknown game code)
//	*    unexpected   status and body logged
package notifier
