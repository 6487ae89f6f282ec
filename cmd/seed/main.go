package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"palettefolio/internal/config"
	"palettefolio/internal/db"
	"palettefolio/internal/db/seed"
	applog "palettefolio/internal/log"
	"palettefolio/internal/store"
)

var (
	loadDatabaseConfig = func() (config.DatabaseConfig, error) { return config.LoadDatabase(".env") }
	openDatabase       = db.Configure
	closeDatabase      = db.Close
)

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		databaseURL string
		file        string
		logLevel    string
	)

	root := &cobra.Command{
		Use:           "seed",
		Short:         "Install the system theme catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applog.SetLevel(logLevel); err != nil {
				return err
			}

			defs := seed.SystemThemes()
			if strings.TrimSpace(file) != "" {
				loaded, err := seed.LoadFile(file)
				if err != nil {
					return err
				}
				defs = loaded
			}

			database, err := connect(databaseURL)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeDatabase(database); err != nil {
					applog.Warn(cmd.Context(), "failed to close database", "error", err)
				}
			}()

			report, err := seed.Apply(cmd.Context(), store.NewThemes(database), defs)
			if err != nil {
				return err
			}
			for _, name := range report.Added {
				fmt.Fprintf(out, "added: %s\n", name)
			}
			for _, name := range report.Skipped {
				fmt.Fprintf(out, "skipped (already exists): %s\n", name)
			}
			fmt.Fprintf(out, "seeding complete: %d added, %d skipped\n", len(report.Added), len(report.Skipped))
			return nil
		},
	}

	root.Flags().StringVar(&databaseURL, "database-url", "", "database URL (defaults to DATABASE_URL)")
	root.Flags().StringVar(&file, "file", "", "JSON catalogue to install instead of the built-in themes")
	root.Flags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the built-in catalogue",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, def := range seed.SystemThemes() {
				fmt.Fprintf(out, "%s\t%s\n", def.Name, def.Description)
			}
		},
	})

	return root
}

func connect(databaseURL string) (*gorm.DB, error) {
	cfg := config.DatabaseConfig{URL: databaseURL}
	if strings.TrimSpace(databaseURL) == "" {
		loaded, err := loadDatabaseConfig()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}
