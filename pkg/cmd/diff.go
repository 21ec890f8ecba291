package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/housekit/housekit/pkg/clickhouse"
	"github.com/housekit/housekit/pkg/config"
	"github.com/housekit/housekit/pkg/drift"
	"github.com/housekit/housekit/pkg/schema"
	"github.com/urfave/cli/v3"
)

// diffCommand creates the diff command, which analyzes every declared table
// against the live database and prints the findings and plans. Nothing is
// executed.
func diffCommand() *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "Compare declared schema with the live database state",
		Description: `Analyze each declared table against the live ClickHouse schema and print
additions, modifications, drops, option changes, destructive reasons, and
the resulting plans. When a change cannot be applied in place, a complete
shadow-swap plan (create, copy, rename) is printed as an alternative.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "schema",
				Aliases: []string{"s"},
				Usage:   "Path to the declared schema file",
				Value:   "schema.yaml",
			},
			&cli.StringFlag{
				Name:  "database",
				Usage: "Name of the configured database to analyze",
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

			tables, err := config.LoadSchemaFile(cmd.String("schema"))
			if err != nil {
				return err
			}

			return runDiff(ctx, db, tables)
		},
	}
}

func runDiff(ctx context.Context, db *config.Database, tables []*schema.Table) error {
	slog.Info("Analyzing schema drift", "database", db.Name, "tables", len(tables))

	client, err := clickhouse.NewClient(ctx, db.DSN)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	engine := drift.NewEngine()
	analyses, err := engine.DetectDrift(ctx, tables, client, drift.Options{
		AutoUpgradeMetadata: db.AutoUpgradeMetadata,
	})
	if err != nil {
		return err
	}

	for _, a := range analyses {
		printAnalysis(a)
	}

	return nil
}

func printAnalysis(a *drift.TableAnalysis) {
	fmt.Printf("%s: %s", a.Name, a.Classification)
	if a.ExternallyManaged {
		fmt.Print(" (externally managed; report only)")
	}
	fmt.Println()

	printList("  add", a.Adds)
	printList("  modify", a.Modifies)
	printList("  drop (manual)", a.Drops)
	printList("  option", a.OptionChanges)
	printList("  destructive", a.DestructiveReasons)
	printList("  warning", a.Warnings)

	if len(a.Plan) > 0 {
		fmt.Println("  plan:")
		for _, stmt := range a.Plan {
			fmt.Printf("    %s;\n", stmt)
		}
	}
	if a.ShadowPlan != nil {
		fmt.Println("  shadow plan (alternative):")
		for _, stmt := range a.ShadowPlan {
			fmt.Printf("    %s;\n", stmt)
		}
	}
}

func printList(label string, items []string) {
	for _, item := range items {
		fmt.Printf("%s: %s\n", label, item)
	}
}
