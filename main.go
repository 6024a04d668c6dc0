package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"ewager/cmd"
	"ewager/config"
	"ewager/database"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "ewager",
		Short:        "Discord bot for tournaments, gamble logs and Pokémon rolls",
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			return runBot(c.Context())
		},
	}

	root.AddCommand(newRunCmd(), newMigrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot",
		RunE: func(c *cobra.Command, args []string) error {
			return runBot(c.Context())
		},
	}
}

func runBot(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("Received shutdown signal, shutting down gracefully...")
	}()

	return cmd.Run(ctx)
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(c *cobra.Command, args []string) error {
				url, err := databaseURL()
				if err != nil {
					return err
				}
				return database.MigrateUp(url)
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("invalid steps value: %s", args[0])
					}
					steps = n
				}
				url, err := databaseURL()
				if err != nil {
					return err
				}
				return database.MigrateDown(url, steps)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the current schema version",
			RunE: func(c *cobra.Command, args []string) error {
				url, err := databaseURL()
				if err != nil {
					return err
				}
				status, err := database.MigrateStatus(url)
				if err != nil {
					return err
				}
				printStatus(status)
				return nil
			},
		},
	)
	return migrateCmd
}

func databaseURL() (string, error) {
	cfg, err := config.LoadUnvalidated()
	if err != nil {
		return "", err
	}
	if cfg.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is required")
	}
	return cfg.GetDatabaseURL(), nil
}

func printStatus(status *database.MigrationStatus) {
	switch {
	case !status.Applied:
		color.Yellow("No migrations applied")
	case status.Dirty:
		color.Red("Version %d (dirty, fix manually and force)", status.Version)
	default:
		color.Green("Version %d", status.Version)
	}
}
