// Package config loads housekit's project configuration from YAML.
package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Database is the configuration for a single ClickHouse target.
	Database struct {
		// Name identifies the target in CLI output
		Name string `yaml:"name"`

		// DSN is the connection string ("host:port" or a full
		// clickhouse:// URL)
		DSN string `yaml:"dsn"`

		// Cluster is the ON CLUSTER target for distributed deployments
		Cluster string `yaml:"cluster,omitempty"`

		// AutoUpgradeMetadata rewrites the housekit metadata comment
		// whenever it lags the local schema version
		AutoUpgradeMetadata bool `yaml:"auto_upgrade_metadata,omitempty"`
	}

	// Config is the project configuration for housekit.
	Config struct {
		// Databases lists the ClickHouse targets to analyze
		Databases []Database `yaml:"databases"`

		// MigrationsDir is the directory holding ordered .sql migrations
		MigrationsDir string `yaml:"migrations_dir"`
	}
)

// LoadConfig parses a project configuration from the provided io.Reader.
// The configuration must name at least one database; having none is a
// fatal caller-level error rather than something the analysis can degrade
// around.
//
// Example:
//
//	cfg, err := config.LoadConfig(strings.NewReader(`
//	databases:
//	  - name: local
//	    dsn: localhost:9000
//	migrations_dir: db/migrations
//	`))
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if len(cfg.Databases) == 0 {
		return nil, errors.New("no databases configured")
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}

	return &cfg, nil
}

// LoadConfigFile loads a project configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}
