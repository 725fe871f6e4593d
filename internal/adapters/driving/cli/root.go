// Package cli implements the cobra command surface of wikiport.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/wikiport-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/wikiport-cli/internal/adapters/driven/confluence"
	mappingsqlite "github.com/custodia-labs/wikiport-cli/internal/adapters/driven/mapping/sqlite"
	"github.com/custodia-labs/wikiport-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikiport-cli/internal/core/ports/driving"
	"github.com/custodia-labs/wikiport-cli/internal/core/services"
	"github.com/custodia-labs/wikiport-cli/internal/logger"
)

var (
	version = "dev"

	verboseFlag   bool
	configDirFlag string

	// Services are injected here by initServices, or directly by tests.
	configStore      driven.ConfigStore
	migrationService driving.Migrator
	spaceService     driving.SpaceLister
)

var rootCmd = &cobra.Command{
	Use:   "wikiport",
	Short: "Migrate legacy knowledge-base exports into wiki pages",
	Long: `wikiport transforms hierarchical knowledge-base export documents into
pages of a target wiki, preserving structure, cross-document references,
shared content and bookmarks. Re-running a migration reconciles existing
pages instead of duplicating them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "configuration directory (default ~/.wikiport)")
}

// Execute runs the CLI with the given build version.
func Execute(v string) error {
	version = v
	return rootCmd.Execute()
}

// initServices wires the adapters behind the driving ports. Tests
// bypass this by assigning the package-level services directly.
func initServices() error {
	if migrationService != nil {
		return nil
	}

	cfg, err := configfile.NewConfigStore(configDirFlag)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	configStore = cfg

	baseURL := cfg.GetString("base_url")
	if baseURL == "" {
		return fmt.Errorf("base_url not configured in %s", cfg.Path())
	}

	store := confluence.NewClient(context.Background(), confluence.Config{
		BaseURL:           baseURL,
		PrimaryToken:      cfg.GetString("primary_token"),
		SecondaryToken:    cfg.GetString("secondary_token"),
		RequestsPerSecond: cfg.GetFloat("requests_per_second"),
	})

	mapping, err := mappingsqlite.NewStore(configDirFlag)
	if err != nil {
		return fmt.Errorf("opening mapping store: %w", err)
	}

	var opts []services.MigrationOption
	if cfg.GetBool("strict_duplicate_ids") {
		opts = append(opts, services.WithStrictDuplicates())
	}
	svc := services.NewMigrationService(store, mapping, opts...)
	migrationService = svc
	spaceService = svc
	return nil
}
