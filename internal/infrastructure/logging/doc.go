// Package logging provides structured logging for the card scanner.
//
// This package wraps Go's standard log/slog package so that every component
// (serial reader, notifier, MQTT mirror, journal) logs with the same fields.
//
// # Features
//
//   - JSON output for services (machine-parsable)
//   - Text output for plain log files
//   - Coloured console output via tint for operators at a terminal
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text, console
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("card scanned", "suit", "HEARTS", "rank", "FIVE")
//	logger.Error("notification failed", "error", err)
//
// Never log MQTT passwords or InfluxDB tokens.
package logging
