package config

import (
	"io"
	"os"

	"github.com/housekit/housekit/pkg/schema"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// schemaFile is the YAML layout of a declared schema file
	schemaFile struct {
		Tables []tableSpec `yaml:"tables"`
	}

	tableSpec struct {
		Name        string           `yaml:"name"`
		Columns     []columnSpec     `yaml:"columns"`
		Engine      string           `yaml:"engine"`
		OrderBy     string           `yaml:"order_by,omitempty"`
		PartitionBy string           `yaml:"partition_by,omitempty"`
		PrimaryKey  string           `yaml:"primary_key,omitempty"`
		TTL         string           `yaml:"ttl,omitempty"`
		OnCluster   *string          `yaml:"on_cluster,omitempty"`
		Indices     []indexSpec      `yaml:"indices,omitempty"`
		Projections []projectionSpec `yaml:"projections,omitempty"`
		Version     string           `yaml:"version,omitempty"`
		AppendOnly  bool             `yaml:"append_only,omitempty"`
		ReadOnly    *bool            `yaml:"read_only,omitempty"`
		External    bool             `yaml:"externally_managed,omitempty"`
		DedupeBy    []string         `yaml:"dedupe_by,omitempty"`
		VersionCol  *string          `yaml:"version_column,omitempty"`
	}

	columnSpec struct {
		Name     string  `yaml:"name"`
		Type     string  `yaml:"type"`
		Nullable bool    `yaml:"nullable,omitempty"`
		Default  *string `yaml:"default,omitempty"`
		Comment  *string `yaml:"comment,omitempty"`
	}

	indexSpec struct {
		Name        string `yaml:"name"`
		Expression  string `yaml:"expression"`
		Type        string `yaml:"type,omitempty"`
		Granularity int    `yaml:"granularity,omitempty"`
	}

	projectionSpec struct {
		Name  string `yaml:"name"`
		Query string `yaml:"query"`
	}
)

// LoadSchema parses a declared schema file into table definitions the drift
// engine accepts.
//
// Example schema file:
//
//	tables:
//	  - name: events
//	    engine: MergeTree()
//	    order_by: id
//	    columns:
//	      - {name: id, type: Int32}
//	      - {name: payload, type: String, nullable: true}
func LoadSchema(r io.Reader) ([]*schema.Table, error) {
	var file schemaFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal schema")
	}

	tables := make([]*schema.Table, 0, len(file.Tables))
	for _, spec := range file.Tables {
		if spec.Name == "" {
			return nil, errors.New("schema table without a name")
		}

		table := &schema.Table{
			Name: spec.Name,
			Options: schema.TableOptions{
				Engine:            spec.Engine,
				OrderBy:           spec.OrderBy,
				PartitionBy:       spec.PartitionBy,
				PrimaryKey:        spec.PrimaryKey,
				TTL:               spec.TTL,
				OnCluster:         spec.OnCluster,
				MetadataVersion:   spec.Version,
				AppendOnly:        spec.AppendOnly,
				ReadOnly:          spec.ReadOnly,
				ExternallyManaged: spec.External,
				DeduplicateBy:     spec.DedupeBy,
				VersionColumn:     spec.VersionCol,
			},
		}

		for _, col := range spec.Columns {
			table.Columns = append(table.Columns, schema.Column{
				Name:     col.Name,
				Type:     col.Type,
				Nullable: col.Nullable,
				Default:  col.Default,
				Comment:  col.Comment,
			})
		}
		for _, idx := range spec.Indices {
			table.Options.Indices = append(table.Options.Indices, schema.IndexDefinition{
				Name:        idx.Name,
				Expression:  idx.Expression,
				Type:        idx.Type,
				Granularity: idx.Granularity,
			})
		}
		for _, proj := range spec.Projections {
			table.Options.Projections = append(table.Options.Projections, schema.ProjectionDefinition{
				Name:  proj.Name,
				Query: proj.Query,
			})
		}

		tables = append(tables, table)
	}

	return tables, nil
}

// LoadSchemaFile loads a declared schema from the specified file path.
func LoadSchemaFile(path string) ([]*schema.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadSchema(f)
}
