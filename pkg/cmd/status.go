package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/housekit/housekit/pkg/clickhouse"
	"github.com/housekit/housekit/pkg/config"
	"github.com/housekit/housekit/pkg/migrator"
	"github.com/urfave/cli/v3"
)

// statusCommand creates the status command, which reports how many
// migration statements are already reflected in the live database. The
// idempotency checker answers per statement; nothing is executed.
func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show which migration statements are already applied",
		Description: `Walk every statement of every migration file, in order, and check whether
its effect is already present in the live database. Statements the
classifier doesn't recognize are always reported as pending, since their
idempotency cannot be decided.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "database",
				Usage: "Name of the configured database to check",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "List every pending statement",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			db, err := targetDatabase(cfg, cmd.String("database"))
			if err != nil {
				return err
			}

			return runStatus(ctx, cfg, db, cmd.Bool("verbose"))
		},
	}
}

func runStatus(ctx context.Context, cfg *config.Config, db *config.Database, verbose bool) error {
	slog.Info("Checking migration status", "database", db.Name, "dir", cfg.MigrationsDir)

	migrations, err := migrator.LoadMigrationDir(os.DirFS(cfg.MigrationsDir))
	if err != nil {
		return err
	}
	if len(migrations) == 0 {
		fmt.Println("No migration files found.")
		return nil
	}

	client, err := clickhouse.NewClient(ctx, db.DSN)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	status, err := migrator.MigrationStatus(ctx, migrations, client)
	if err != nil {
		return err
	}

	fmt.Printf("%d statements: %d applied, %d pending\n", status.Total, status.Applied, status.Pending)

	if verbose && !status.Fully() {
		for _, m := range migrations {
			pending := status.PendingByVersion[m.Version]
			if len(pending) == 0 {
				continue
			}
			fmt.Printf("%s:\n", m.Version)
			for _, stmt := range pending {
				fmt.Printf("  %s;\n", stmt.Raw)
			}
		}
	}

	return nil
}
