package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/cmd/cli/commands"
	"github.com/jakechorley/relief-camps/internal/config"
	"github.com/jakechorley/relief-camps/pkg/campdesk"
	"github.com/jakechorley/relief-camps/pkg/core/services"
	"github.com/jakechorley/relief-camps/pkg/db"
	"github.com/jakechorley/relief-camps/pkg/postgres"
	"github.com/jakechorley/relief-camps/pkg/utils/logging"
)

var (
	env      string
	jsonOut  bool
	verbose  bool
	app      = &commands.AppContext{}
	database db.Database
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Relief Camps CLI - Manage shelter camps and bed reservations",
		Long: `A CLI tool for registering affected people and volunteers, listing relief camps,
reserving beds, assigning volunteers and watching capacity change.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if database != nil {
				database.Close()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print raw result envelopes as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.SignUpCmd(app))
	rootCmd.AddCommand(commands.SignInCmd(app))
	rootCmd.AddCommand(commands.SignOutCmd(app))
	rootCmd.AddCommand(commands.WhoAmICmd(app))
	rootCmd.AddCommand(commands.ListCampsCmd(app))
	rootCmd.AddCommand(commands.CreateCampCmd(app))
	rootCmd.AddCommand(commands.DeleteCampCmd(app))
	rootCmd.AddCommand(commands.SelectCampCmd(app))
	rootCmd.AddCommand(commands.CancelSelectionCmd(app))
	rootCmd.AddCommand(commands.MySelectionCmd(app))
	rootCmd.AddCommand(commands.AssignVolunteerCmd(app))
	rootCmd.AddCommand(commands.ListAssignmentsCmd(app))
	rootCmd.AddCommand(commands.WatchCmd(app))
	rootCmd.AddCommand(commands.PublishCampBoardCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, the store and the caller-facing client
func initApp() error {
	var err error
	app.Env = env
	app.JSON = jsonOut
	app.Ctx = context.Background()
	app.Out = os.Stdout

	app.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully", zap.String("backend", app.Cfg.Backend))

	database, err = openDatabase(app.Ctx, app.Cfg, app.Logger)
	if err != nil {
		return err
	}
	app.Database = database

	if err := database.SeedCamps(app.Ctx, services.SeedFromConfig(app.Cfg.SeedCamps, time.Now().UTC())); err != nil {
		return fmt.Errorf("failed to seed camps: %w", err)
	}

	app.Desk = campdesk.New(database, app.Logger, campdesk.Options{
		Auth:        services.AuthOptions{BcryptCost: app.Cfg.BcryptCost},
		Assignments: app.AssignmentOptions(),
	})

	// Only a persistent store can honour a session saved by a previous run
	app.Sessions = commands.NewSessionKeeper(env, app.Cfg.Backend == config.BackendPostgres)

	return nil
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.Database, error) {
	if cfg.Backend != config.BackendPostgres {
		logger.Info("Using in-memory database")
		return db.NewMemoryDB(), nil
	}

	logger.Info("Connecting to PostgreSQL")
	pg, err := postgres.NewDB(ctx, cfg.Postgres.ConnString, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Postgres.RunMigrations {
		logger.Info("Running database migrations")
		if err := pg.RunMigrations(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	logger.Debug("Database initialized successfully")
	return pg, nil
}
