// Package api implements the scanner's local, read-only status API.
//
// Routes (all JSON):
//
//	GET /api/v1/health         scanner loop + enabled infrastructure, 503 if degraded
//	GET /api/v1/status         endpoint, last accepted card, loop counters
//	GET /api/v1/metrics        Go runtime, loop counters, database pool
//	GET /api/v1/scans          journal page (?outcome=&game_id=&limit=&offset=)
//	GET /api/v1/scans/summary  journal entry count per outcome
//
// The scans routes answer 503 when the journal (database.enabled) is off.
//
// The API binds to api.host (127.0.0.1 by default) and has no
// authentication. It never writes to the port or the game service.
package api
