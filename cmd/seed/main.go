package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sefazor/eventos-backend/internal/config"
	"github.com/sefazor/eventos-backend/internal/seed"
	"github.com/sefazor/eventos-backend/pkg/database"
	"github.com/sefazor/eventos-backend/pkg/logger"
)

var (
	flagReset    bool
	flagEvents   int
	flagRandSeed int64
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo users and events",
	Long: `Creates five demo accounts (password 123456) and a set of upcoming
events with random attendees.

Examples:
  seed                  Add demo events, reusing existing demo accounts
  seed --reset          Delete all users and events first
  seed --events 30      Create 30 events`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVar(&flagReset, "reset", false, "Delete all existing users, events and attendances first")
	rootCmd.Flags().IntVar(&flagEvents, "events", 12, "Number of events to create")
	rootCmd.Flags().Int64Var(&flagRandSeed, "rand-seed", 0, "Random seed for reproducible data (default: time based)")
}

func run(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	zlog, err := logger.New(cfg.Server.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer zlog.Sync()

	db, err := database.NewDatabase(database.Options{
		URL:      cfg.Database.URL,
		LogLevel: cfg.Database.LogLevel,
	}, zlog)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, cfg.Database.SearchLanguage); err != nil {
		return err
	}

	res, err := seed.New(db, zlog).Run(cmd.Context(), seed.Options{
		Reset:    flagReset,
		Events:   flagEvents,
		RandSeed: flagRandSeed,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Seeded %d users, %d events, %d attendances\n", len(res.Users), len(res.Events), res.Attendances)
	for _, u := range res.Users {
		fmt.Fprintf(out, "  %s <%s> password: %s\n", u.Name, u.Email, seed.DemoPassword)
	}
	zlog.Debug("seed finished", zap.Bool("reset", flagReset))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
