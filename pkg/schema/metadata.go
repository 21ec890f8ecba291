package schema

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/housekit/housekit/pkg/compare"
	"github.com/housekit/housekit/pkg/consts"
	"github.com/pkg/errors"
)

// DefaultMetadataVersion is the version written when a table definition
// doesn't declare one.
const DefaultMetadataVersion = "1.0.0"

type (
	// Metadata is housekit's own versioning envelope, serialized as JSON
	// inside a table's comment. It records the schema version the table was
	// last reconciled to along with the append-only/read-only flags.
	//
	// Absence of the envelope in a remote comment means the table predates
	// housekit or is managed elsewhere; that is treated as "legacy", never
	// as an error.
	Metadata struct {
		Version    string `json:"version"`
		AppendOnly bool   `json:"appendOnly"`
		ReadOnly   *bool  `json:"readOnly,omitempty"`
	}
)

// CommentString serializes the metadata into the JSON envelope stored in a
// table comment.
//
// Example:
//
//	m := &schema.Metadata{Version: "1.2.0", AppendOnly: true}
//	c, _ := m.CommentString()
//	// c == `{"housekit":{"version":"1.2.0","appendOnly":true}}`
func (m *Metadata) CommentString() (string, error) {
	data, err := json.Marshal(map[string]*Metadata{consts.MetadataKey: m})
	if err != nil {
		return "", errors.Wrap(err, "failed to serialize housekit metadata")
	}
	return string(data), nil
}

// Equal compares two metadata envelopes field by field.
func (m *Metadata) Equal(other *Metadata) bool {
	if eq, more := compare.NilCheck(m, other); !more {
		return eq
	}
	return m.Version == other.Version &&
		m.AppendOnly == other.AppendOnly &&
		compare.Pointers(m.ReadOnly, other.ReadOnly)
}

// Clone returns a deep copy of the metadata.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	out := *m
	if m.ReadOnly != nil {
		ro := *m.ReadOnly
		out.ReadOnly = &ro
	}
	return &out
}

// ParseMetadata extracts a housekit metadata envelope from a table comment.
//
// Returns (nil, nil) when the comment is empty, isn't JSON, or is JSON
// without a "housekit" key: all of those simply mean the table carries no
// housekit metadata. A non-nil error is returned only for a present-but-
// malformed envelope, and callers degrade that to a warning rather than
// failing the analysis.
func ParseMetadata(comment string) (*Metadata, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" || !strings.HasPrefix(comment, "{") {
		return nil, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(comment), &envelope); err != nil {
		// The comment looked like JSON but didn't parse; let the caller
		// decide how loudly to complain
		return nil, errors.Wrap(err, "malformed metadata comment")
	}

	raw, ok := envelope[consts.MetadataKey]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, errors.Wrap(err, "malformed metadata comment")
	}

	return &meta, nil
}

// TargetMetadata computes the metadata a table should carry after
// reconciliation: the remote metadata (or a fresh default when absent)
// upgraded to the locally declared version, with the local append-only and
// read-only settings applied.
func (t *Table) TargetMetadata(remote *Metadata) *Metadata {
	target := remote.Clone()
	if target == nil {
		target = &Metadata{}
	}

	target.Version = t.Options.MetadataVersion
	if target.Version == "" {
		target.Version = DefaultMetadataVersion
	}
	target.AppendOnly = t.Options.AppendOnly
	if t.Options.ReadOnly != nil {
		ro := *t.Options.ReadOnly
		target.ReadOnly = &ro
	}

	return target
}
