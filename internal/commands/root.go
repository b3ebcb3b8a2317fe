// Package commands implements the CLI commands for the filament tracker
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"remainder/internal/accounting"
	"remainder/internal/clock"
	"remainder/internal/config"
	"remainder/internal/database"
	"remainder/internal/logger"
)

// NewRootCommand creates the remainder command with every subcommand attached
func NewRootCommand() *cobra.Command {
	var configFile string
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "remainder",
		Short: "Keep track of how much filament is left on your 3D printer spool",
		Long: `Remainder tracks filament spools and the prints made with them.

Create a spool when you load a new roll, then record every print against it.
The most recently created spool is the one in the printer; creating a new
spool replaces it. Weight and length convert into each other, so either one
is enough for a spool or a print.

Example:
  remainder create-spool "PLA black" --weight 1000
  remainder add-print 1125 --length 2.31
  remainder check-remaining
  remainder lifetime-stats`,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./remainder.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, config.FlagLogLevel, config.DefaultLogLevel, "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		NewCreateSpoolCommand(),
		NewAddPrintCommand(),
		NewCheckRemainingCommand(),
		NewLifetimeStatsCommand(),
		NewCurrentSpoolCommand(),
		NewListSpoolsCommand(),
		NewImportPrintsCommand(),
	)

	return rootCmd
}

// addDatabaseFlag defines the --db flag every subcommand accepts
func addDatabaseFlag(cmd *cobra.Command, dbFile *string) {
	cmd.Flags().StringVarP(dbFile, config.FlagDatabase, "d", config.DefaultDatabaseFile, config.DatabaseFileDescription)
}

// addMeasurementFlags defines the optional --weight and --length flags
func addMeasurementFlags(cmd *cobra.Command, weight, length *float64) {
	cmd.Flags().Float64VarP(weight, "weight", "w", 0, config.WeightDescription)
	cmd.Flags().Float64VarP(length, "length", "l", 0, config.LengthDescription)
}

// optionalFloat returns value only when the flag was given on the command line
func optionalFloat(cmd *cobra.Command, name string, value float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

// session is the state a command needs to talk to the accounting engine
type session struct {
	service *accounting.Service
	log     *slog.Logger
	closers []io.Closer
}

// openSession loads configuration, builds the logger and opens the database
func openSession(cmd *cobra.Command) (*session, error) {
	configFile := ""
	if flag := cmd.Flags().Lookup("config"); flag != nil {
		configFile = flag.Value.String()
	}

	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	s := &session{}

	switch strings.ToLower(cfg.Logger.OutputPath) {
	case "stderr", "":
		s.log, err = logger.NewWithWriter(cfg.Logger, cmd.ErrOrStderr())
	default:
		var closer io.Closer
		s.log, closer, err = logger.New(cfg.Logger)
		if closer != nil {
			s.closers = append(s.closers, closer)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	db, err := database.Initialize(cfg.Database.Path)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	s.closers = append(s.closers, db)
	s.log.Debug("database opened", "path", cfg.Database.Path)

	s.service = accounting.NewService(db, s.log, clock.System{})
	return s, nil
}

// Close releases the database and log file, most recently opened first
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && s.log != nil {
			s.log.Warn("failed to close resource", "error", err)
		}
	}
}
