package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the card scanner.
// Values are loaded from defaults, an optional YAML file, environment
// variables and finally command-line flags, in that order.
type Config struct {
	Scanner  ScannerConfig     `yaml:"scanner"`
	Service  ServiceConfig     `yaml:"service"`
	Cards    map[string]string `yaml:"cards"`
	Logging  LoggingConfig     `yaml:"logging"`
	MQTT     MQTTConfig        `yaml:"mqtt"`
	InfluxDB InfluxDBConfig    `yaml:"influxdb"`
	Database DatabaseConfig    `yaml:"database"`
	API      APIConfig         `yaml:"api"`
}

// ScannerConfig contains serial reader settings.
type ScannerConfig struct {
	// Device is the serial device path of the NFC reader.
	// Default: "/dev/ttyUSB0"
	Device string `yaml:"device"`

	// Baud is the serial line speed.
	// Default: 115200
	Baud int `yaml:"baud"`

	// ReadTimeoutMs bounds each poll of the device.
	// Default: 100
	ReadTimeoutMs int `yaml:"read_timeout_ms"`

	// RetryDelayMs is the pause after a timed out or failed read.
	// Default: 100
	RetryDelayMs int `yaml:"retry_delay_ms"`
}

// ServiceConfig identifies the remote game service.
type ServiceConfig struct {
	// BaseURL is the scheme and host of the game service, e.g. "http://poker.local:8080".
	BaseURL string `yaml:"base_url"`

	// GameID is the game code cards are scanned into.
	GameID string `yaml:"game_id"`

	// RequestTimeout bounds one scan notification in seconds.
	// Default: 10
	RequestTimeout int `yaml:"request_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MQTTConfig contains MQTT broker connection settings for the state mirror.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings for scan telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// DatabaseConfig contains SQLite settings for the scan journal.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains settings for the local status API.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// Load reads configuration and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values, if path is not empty
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: CARDSCAN_SECTION_KEY
// For example: CARDSCAN_SERVICE_BASE_URL, CARDSCAN_SCANNER_DEVICE
//
// Validate is not called here: command-line flags are applied by the caller
// afterwards and validation must see the final values.
//
// Parameters:
//   - path: Path to the YAML configuration file, or "" for defaults only
//
// Returns:
//   - *Config: Loaded configuration
//   - error: If the file cannot be read or parsed
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// defaultConfig returns a Config with the reader's factory settings.
func defaultConfig() *Config {
	return &Config{
		Scanner: ScannerConfig{
			Device:        "/dev/ttyUSB0",
			Baud:          115200,
			ReadTimeoutMs: 100,
			RetryDelayMs:  100,
		},
		Service: ServiceConfig{
			RequestTimeout: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "cardscan",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Database: DatabaseConfig{
			Path:        "./data/cardscan.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8090,
			Timeouts: APITimeoutConfig{
				Read:  10,
				Write: 10,
				Idle:  60,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: CARDSCAN_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Service
	if v := os.Getenv("CARDSCAN_SERVICE_BASE_URL"); v != "" {
		cfg.Service.BaseURL = v
	}
	if v := os.Getenv("CARDSCAN_SERVICE_GAME_ID"); v != "" {
		cfg.Service.GameID = v
	}

	// Scanner
	if v := os.Getenv("CARDSCAN_SCANNER_DEVICE"); v != "" {
		cfg.Scanner.Device = v
	}
	if v := os.Getenv("CARDSCAN_SCANNER_BAUD"); v != "" {
		if baud, err := strconv.Atoi(v); err == nil {
			cfg.Scanner.Baud = baud
		}
	}

	// MQTT
	if v := os.Getenv("CARDSCAN_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("CARDSCAN_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("CARDSCAN_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("CARDSCAN_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Database
	if v := os.Getenv("CARDSCAN_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Service validation
	if c.Service.BaseURL == "" {
		errs = append(errs, "service.base_url is required (--base)")
	} else if u, err := url.Parse(c.Service.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, "service.base_url must be an absolute URL")
	}
	if c.Service.GameID == "" {
		errs = append(errs, "service.game_id is required (--game)")
	}
	if c.Service.RequestTimeout < 1 {
		errs = append(errs, "service.request_timeout must be at least 1 second")
	}

	// Scanner validation
	if c.Scanner.Device == "" {
		errs = append(errs, "scanner.device is required")
	}
	if c.Scanner.Baud < 1 {
		errs = append(errs, "scanner.baud must be positive")
	}
	if c.Scanner.ReadTimeoutMs < 1 {
		errs = append(errs, "scanner.read_timeout_ms must be positive")
	}
	if c.Scanner.RetryDelayMs < 1 {
		errs = append(errs, "scanner.retry_delay_ms must be positive")
	}

	// MQTT validation
	if c.MQTT.Enabled {
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.org and influxdb.bucket are required when influxdb is enabled")
		}
	}

	// Database validation
	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when database is enabled")
	}

	// API validation
	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Endpoint returns the scan URL for the configured game:
// {base}/api/scanner/{game}/scan.
func (c *Config) Endpoint() string {
	base := strings.TrimRight(c.Service.BaseURL, "/")
	return fmt.Sprintf("%s/api/scanner/%s/scan", base, c.Service.GameID)
}

// GetReadTimeout returns the serial read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.Scanner.ReadTimeoutMs) * time.Millisecond
}

// GetRetryDelay returns the pause after a failed read as a Duration.
func (c *Config) GetRetryDelay() time.Duration {
	return time.Duration(c.Scanner.RetryDelayMs) * time.Millisecond
}

// GetRequestTimeout returns the notification timeout as a Duration.
func (c *Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.Service.RequestTimeout) * time.Second
}
