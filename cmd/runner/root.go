package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/randel-bjorkquist/pluralsight/internal/config"
	"github.com/randel-bjorkquist/pluralsight/internal/logger"
	"github.com/randel-bjorkquist/pluralsight/internal/metrics"
	"github.com/randel-bjorkquist/pluralsight/internal/repository/postgres"
	"github.com/randel-bjorkquist/pluralsight/internal/repository/sqlite"
	"github.com/randel-bjorkquist/pluralsight/internal/repository/sqlstore"
	"github.com/randel-bjorkquist/pluralsight/internal/service"
)

// app is the state shared by every subcommand once the root has run
type app struct {
	out     io.Writer
	cfg     *config.Config
	logData *logger.LogData
	log     zerolog.Logger
	metrics *metrics.Metrics
	store   *sqlstore.Store
	svc     *service.ContactService
}

type rootFlags struct {
	configPath string
	envFile    string
	dbPath     string
	driver     string
	logLevel   string
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "runner",
		Short: "Contact book data access runner",
		Long: `runner opens the configured contact database (SQLite by default,
or Postgres) and runs maintenance and demo commands against it.

Settings come from contacts.yaml, PLURALSIGHT_* environment variables
(optionally loaded from a .env file) and the flags below, in that order.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd, flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.SetOut(out)
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file path (default: search $PLURALSIGHT_CONFIG, ./contacts.yaml, XDG, /etc)")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	pf.StringVar(&flags.dbPath, "db", "", "SQLite database path, overrides the config")
	pf.StringVar(&flags.driver, "driver", "", "database driver: sqlite or postgres")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newDeleteCmd(a),
		newStatesCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newDemoCmd(a),
	)
	return root
}

// open loads the configuration and opens the store and service
func (a *app) open(cmd *cobra.Command, flags *rootFlags) error {
	if err := godotenv.Load(flags.envFile); err != nil {
		if cmd.Flags().Changed("env-file") || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", flags.envFile, err)
		}
	}

	cfg, path, err := loadConfig(flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if flags.driver != "" {
		cfg.Database.Driver = config.ParseDriver(flags.driver)
	}
	if flags.dbPath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = flags.dbPath
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	a.cfg = cfg

	build := logger.New().
		FromWriter(cmd.ErrOrStderr()).
		Level(logger.ParseLevel(cfg.Log.Level)).
		Console(cfg.Log.Format == "console")
	if cfg.Log.Path != "" {
		build = build.FromPath(cfg.Log.Path)
	}
	if a.logData, err = build.Make(); err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.log = a.logData.Logger
	if path != "" {
		a.log.Debug().Str("path", path).Msg("configuration loaded")
	}

	a.metrics = metrics.New()
	a.store, err = openStore(cmd.Context(), cfg.Database,
		sqlstore.WithCommandTimeout(cfg.Database.CommandTimeout.Duration()),
		sqlstore.WithLogger(a.log),
		sqlstore.WithMetrics(a.metrics),
	)
	if err != nil {
		return err
	}
	a.log.Debug().Str("driver", string(cfg.Database.Driver)).Msg("database opened")

	bus := service.NewEventBus()
	events := make(chan service.Event, 64)
	bus.Subscribe(events)
	go func() {
		for e := range events {
			a.log.Debug().Str("event", string(e.Type)).Interface("payload", e.Payload).Msg("event")
		}
	}()

	a.svc = service.NewContactService(a.store, bus,
		service.WithLogger(a.log),
		service.WithMetrics(a.metrics),
	)
	return nil
}

// close releases the store and writes the metrics file when configured
func (a *app) close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.cfg != nil && a.cfg.Metrics.File != "" {
		if err := a.metrics.WriteFile(a.cfg.Metrics.File); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	if a.logData != nil {
		errs = append(errs, a.logData.Close())
	}
	return errors.Join(errs...)
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func openStore(ctx context.Context, db config.DatabaseConfig, opts ...sqlstore.Option) (*sqlstore.Store, error) {
	if db.Driver == config.DriverPostgres {
		pc, err := postgres.ConfigFrom(db)
		if err != nil {
			return nil, err
		}
		return postgres.Open(ctx, pc, opts...)
	}
	return sqlite.New(ctx, db.Path, opts...)
}
