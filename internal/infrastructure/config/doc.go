// Package config handles loading and validating card scanner configuration.
//
// This package manages:
//   - Loading configuration from an optional YAML file
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The scanner runs with no config file at all: --base and --game are the only
// required settings and everything else has a default matching the reader
// hardware (/dev/ttyUSB0 at 115200 baud, 100ms polls).
//
// Security Considerations:
//   - MQTT passwords and InfluxDB tokens should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load(os.Getenv("CARDSCAN_CONFIG"))
//	if err != nil {
//	    return err
//	}
//	cfg.Service.BaseURL = base
//	cfg.Service.GameID = game
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Endpoint())
package config
