package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-agenda/internal/db"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	DatabaseURL string
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for agendactl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "agendactl",
		Short: "Operator tools for the barbershop agenda",
		Long:  "Schema migration, availability inspection and one-off reminder runs against the agenda database.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", "", "overrides DATABASE_URL; sqlite:<path> opens a local file")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSlotsCommand(opts))
	cmd.AddCommand(NewRemindCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// env bundles what every command needs.
type env struct {
	cfg *config.Config
	db  *gorm.DB
	log *slog.Logger
}

func setup(opts *RootOptions, cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.DatabaseURL != "" {
		cfg.DBUrl = opts.DatabaseURL
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	db, err := open(cfg)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, db: db, log: log}, nil
}

func open(cfg *config.Config) (*gorm.DB, error) {
	if path, ok := strings.CutPrefix(cfg.DBUrl, "sqlite:"); ok {
		db, err := dbpkg.Open(sqlite.Open(path))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		return db, nil
	}
	return dbpkg.NewDB(cfg)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
