package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/linkfolio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/linkfolio/pkg/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	DatabaseURL string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "linkfolio-cli",
		Short:         "Maintenance commands for the linkfolio database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "db", "", "database URL (defaults to DATABASE_URL)")

	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newCheckUsernameCommand(opts))
	cmd.AddCommand(newPublishPostCommand(opts))

	return cmd
}

func (o *rootOptions) openRepo() (*sqlite.SQLiteRepository, error) {
	dbURL := o.DatabaseURL
	if dbURL == "" {
		dbURL = config.Load().DatabaseURL
	}
	repo, err := sqlite.NewSQLiteRepository(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return repo, nil
}
