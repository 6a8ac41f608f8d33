// Package scanner reads card tags from the NFC reader and reports card changes.
//
// # Architecture
//
//	┌────────────┐  frames  ┌─────────┐ CardState ┌──────────┐  POST  ┌──────────────┐
//	│ serial port│─────────►│ Reader  │──────────►│ Debouncer│───────►│ game service │
//	└────────────┘          └─────────┘  (table)  └──────────┘        └──────────────┘
//	                                                   │
//	                                                   └──► journal, MQTT, InfluxDB (optional)
//
// The reader emits ASCII frames: a 12 or 13 character tag identifier followed
// by two trailing bytes. Only a read of exactly 14 or 15 bytes is treated as
// a frame; everything else is discarded.
//
// # Debounce
//
// A card lying on the reader is reported over and over. The bridge notifies
// only when a fully decoded card differs from the last accepted one. The last
// accepted card is updated before the notification is sent, whatever the
// response, so a failed POST is not repeated until a different card is seen.
//
// # Errors
//
// Only failing to open the port is fatal. Read timeouts are silent, other read
// errors are logged, and both pause the loop for the retry delay.
package scanner
