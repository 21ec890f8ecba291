package consts

import "os"

const (
	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// MetadataKey is the top-level key under which housekit stores its
	// metadata envelope inside a table comment
	MetadataKey = "housekit"

	// ShadowTablePrefix is prepended to a table name when building the
	// shadow table used for rebuild-and-swap migrations
	ShadowTablePrefix = "housekit_shadow_"

	// BackupTablePrefix is prepended to the original table's name when a
	// shadow swap renames the shadow into place
	BackupTablePrefix = "housekit_backup_"

	// DefaultConfigFile is the name of the project configuration file
	DefaultConfigFile = "housekit.yaml"
)
