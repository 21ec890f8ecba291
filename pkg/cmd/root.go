// Package cmd wires the housekit CLI together: the diff command that
// reports drift and prints plans, and the status command that checks which
// migration statements are already applied. All analysis happens in the
// pure drift and migrator packages; this package only loads inputs, talks
// to the database client, and prints.
package cmd

import (
	"context"

	"github.com/housekit/housekit/pkg/config"
	"github.com/housekit/housekit/pkg/consts"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

// Run builds and executes the housekit CLI application.
func Run(ctx context.Context, version string, args []string) error {
	app := &cli.Command{
		Name:  "housekit",
		Usage: "Detect ClickHouse schema drift and plan safe migrations",
		Description: `housekit compares code-declared table schemas against the live ClickHouse
schema and produces a safe, minimal set of DDL statements to reconcile
them. Destructive changes are never executed silently: every plan is
reported for review, with a rebuild-and-swap alternative where in-place
ALTERs cannot safely express the change.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "the housekit config file",
				Sources: cli.EnvVars("HOUSEKIT_CONFIG"),
				Value:   consts.DefaultConfigFile,
			},
		},
		Commands: []*cli.Command{
			diffCommand(),
			statusCommand(),
		},
	}

	return app.Run(ctx, args)
}

// loadConfig loads the config file named by the global --config flag.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	return config.LoadConfigFile(cmd.String("config"))
}

// targetDatabase resolves the --database flag against the configured
// targets, defaulting to the first (and only) one when unset.
func targetDatabase(cfg *config.Config, name string) (*config.Database, error) {
	if name == "" {
		if len(cfg.Databases) == 1 {
			return &cfg.Databases[0], nil
		}
		return nil, errors.New("multiple databases configured; use --database to pick one")
	}

	for i := range cfg.Databases {
		if cfg.Databases[i].Name == name {
			return &cfg.Databases[i], nil
		}
	}

	return nil, errors.Errorf("unknown database %q", name)
}
