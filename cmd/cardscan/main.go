// Card scanner bridge.
//
// cardscan reads NFC tag identifiers from a serial reader embedded in a card
// table, maps each tag to a playing card and tells the game service whenever
// the card on the reader changes:
//
//	cardscan --base http://poker.local:8080 --game ABCD
//
// Each change is POSTed to {base}/api/scanner/{game}/scan as
// {"suit":"HEARTS","rank":"FIVE"}. The scan journal, MQTT mirror, InfluxDB
// telemetry and status API are optional and configured in YAML.
//
// Subcommands:
//
//	cardscan cards [--validate]       print and check the tag table
//	cardscan migrate [status|down]    manage the scan journal schema
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/nerrad567/gray-logic-scanner/migrations"

	"github.com/nerrad567/gray-logic-scanner/internal/api"
	"github.com/nerrad567/gray-logic-scanner/internal/cards"
	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-scanner/internal/journal"
	"github.com/nerrad567/gray-logic-scanner/internal/notifier"
	"github.com/nerrad567/gray-logic-scanner/internal/scanner"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// configEnvVar names the config file when --config is not given.
const configEnvVar = "CARDSCAN_CONFIG"

// options are the command-line overrides for a scanner run.
type options struct {
	configPath string
	baseURL    string
	gameID     string
	device     string
	baud       int
}

func main() {
	// SIGINT/SIGTERM cancel the context; the read loop exits at its next poll.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the cardscan command tree.
func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "cardscan",
		Short: "Bridge an NFC card reader to a game service",
		Long: `cardscan reads NFC tag identifiers from a serial reader, maps each tag to a
playing card and POSTs every change of card to the game service at
{base}/api/scanner/{game}/scan.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config file (default $"+configEnvVar+")")

	// --base and --game may also come from the config file or
	// CARDSCAN_SERVICE_*; Validate reports them if still unset.
	root.Flags().StringVar(&opts.baseURL, "base", "", "base URL of the game service, e.g. http://poker.local:8080 (or service.base_url)")
	root.Flags().StringVar(&opts.gameID, "game", "", "game code to scan cards into (or service.game_id)")
	root.Flags().StringVar(&opts.device, "device", "", "serial device of the reader (default /dev/ttyUSB0)")
	root.Flags().IntVar(&opts.baud, "baud", 0, "serial line speed (default 115200)")

	root.AddCommand(newCardsCmd(&opts))
	root.AddCommand(newMigrateCmd(&opts))

	return root
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - opts: Command-line overrides
//
// Returns:
//   - error: nil on clean shutdown, or error describing a startup failure
func run(ctx context.Context, opts options) error {
	// Use default logger until config is loaded
	log := logging.Default()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log = logging.New(cfg.Logging, version)
	log.Info("starting cardscan",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	table, err := cards.DefaultTable().WithOverrides(cfg.Cards)
	if err != nil {
		return fmt.Errorf("loading card table: %w", err)
	}
	if len(cfg.Cards) > 0 {
		log.Info("card table overrides applied", "overrides", len(cfg.Cards), "tags", table.Len())
	}

	endpoint := cfg.Endpoint()
	log.Info("Using game", "game_id", cfg.Service.GameID, "endpoint", endpoint)

	notif, err := notifier.New(notifier.Options{
		Endpoint: endpoint,
		Timeout:  cfg.GetRequestTimeout(),
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("creating notifier: %w", err)
	}

	port, err := scanner.OpenSerial(cfg.Scanner.Device, cfg.Scanner.Baud, cfg.GetReadTimeout())
	if err != nil {
		return fmt.Errorf("opening serial port: %w", err)
	}
	log.Info("serial port opened", "device", cfg.Scanner.Device, "baud", cfg.Scanner.Baud)

	bridgeOpts := scanner.Options{
		Port:       port,
		Table:      table,
		Notifier:   notif,
		GameID:     cfg.Service.GameID,
		RetryDelay: cfg.GetRetryDelay(),
		Logger:     log,
	}
	checks := make(map[string]api.HealthChecker)

	// Scan journal (optional)
	var (
		db          *database.DB
		journalRepo journal.Repository
	)
	if cfg.Database.Enabled {
		db, err = openJournal(ctx, cfg.Database, log)
		if err != nil {
			port.Close() //nolint:errcheck // startup already failed
			return err
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		journalRepo = journal.NewSQLiteRepository(db.DB)
		bridgeOpts.Recorder = &journalRecorder{repo: journalRepo}
		checks["database"] = db
	} else {
		log.Info("scan journal disabled")
	}

	// MQTT state mirror (optional)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			port.Close() //nolint:errcheck // startup already failed
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
		bridgeOpts.Publisher = &mqttPublisher{client: mqttClient}
		checks["mqtt"] = mqttClient
	} else {
		log.Info("MQTT mirror disabled")
	}

	// InfluxDB telemetry (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(ctx, cfg.InfluxDB)
		if influxErr != nil {
			port.Close() //nolint:errcheck // startup already failed
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		bridgeOpts.Metrics = &influxMetrics{client: influxClient}
		checks["influxdb"] = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	bridge, err := scanner.NewBridge(bridgeOpts)
	if err != nil {
		port.Close() //nolint:errcheck // startup already failed
		return fmt.Errorf("creating scanner: %w", err)
	}
	if err := bridge.Start(ctx); err != nil {
		port.Close() //nolint:errcheck // startup already failed
		return fmt.Errorf("starting scanner: %w", err)
	}
	defer bridge.Stop()

	// Status API (optional)
	if cfg.API.Enabled {
		deps := api.Deps{
			Config:   cfg.API,
			Logger:   log,
			Scanner:  bridge,
			Endpoint: endpoint,
			Version:  version,
			Journal:  journalRepo,
			Checks:   checks,
		}
		if db != nil {
			deps.DB = db
		}
		server, apiErr := api.New(deps)
		if apiErr != nil {
			return fmt.Errorf("creating API server: %w", apiErr)
		}
		if apiErr := server.Start(ctx); apiErr != nil {
			return fmt.Errorf("starting API server: %w", apiErr)
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	}

	log.Info("initialisation complete, waiting for cards")

	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order: API, scanner (closes the port),
	// InfluxDB, MQTT, database.
	return nil
}

// loadConfig resolves the config file, applies flag overrides and validates.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(getConfigPath(opts.configPath))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyFlags(cfg, opts)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getConfigPath returns the --config value, else $CARDSCAN_CONFIG, else ""
// (defaults only).
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(configEnvVar)
}

// applyFlags overrides config values with any flags that were set.
func applyFlags(cfg *config.Config, opts options) {
	if opts.baseURL != "" {
		cfg.Service.BaseURL = opts.baseURL
	}
	if opts.gameID != "" {
		cfg.Service.GameID = opts.gameID
	}
	if opts.device != "" {
		cfg.Scanner.Device = opts.device
	}
	if opts.baud > 0 {
		cfg.Scanner.Baud = opts.baud
	}
}

// openJournal opens the SQLite database and applies migrations.
func openJournal(ctx context.Context, cfg config.DatabaseConfig, log *logging.Logger) (*database.DB, error) {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // migration failure is the error we report
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	log.Info("scan journal ready", "path", db.Path())
	return db, nil
}
