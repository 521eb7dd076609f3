// Package manifest reads and writes the data_description.json document that
// describes a persisted entity set: its entities, their typed variables,
// per-entity loading info and the relationships between them.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// DescriptionFilename is the manifest file name inside an entity set
	// directory or archive root.
	DescriptionFilename = "data_description.json"

	// SchemaVersion is the newest manifest schema this reader understands.
	SchemaVersion = "3.0.0"
)

// Manifest is the top-level description of one persisted entity set.
type Manifest struct {
	ID            string                    `json:"id"`
	SchemaVersion string                    `json:"schema_version"`
	Entities      Entities                  `json:"entities"`
	Relationships []RelationshipDescription `json:"relationships"`

	// Path is the absolute directory the manifest was read from, used to
	// resolve each entity's relative data location. Empty for manifests
	// built purely in memory.
	Path string `json:"-"`
}

// SchemaVersionError indicates a manifest written by a newer, incompatible
// schema than this reader supports.
type SchemaVersionError struct {
	Have string
}

func (e *SchemaVersionError) Error() string {
	return fmt.Sprintf("unsupported schema version %q (reader supports up to %s)", e.Have, SchemaVersion)
}

// CheckSchemaVersion validates the manifest's schema version tag against the
// reader's supported version. Manifests with a newer major version fail.
func CheckSchemaVersion(m *Manifest) error {
	have, err := majorVersion(m.SchemaVersion)
	if err != nil {
		return fmt.Errorf("malformed schema version %q: %w", m.SchemaVersion, err)
	}
	want, err := majorVersion(SchemaVersion)
	if err != nil {
		return err
	}
	if have > want {
		return &SchemaVersionError{Have: m.SchemaVersion}
	}
	return nil
}

func majorVersion(v string) (int, error) {
	head, _, _ := strings.Cut(v, ".")
	return strconv.Atoi(head)
}

// Read loads the manifest from a local entity set directory. The path must
// exist; the schema version is validated before anything else so that an
// incompatible manifest never partially constructs an entity set. The
// returned manifest is stamped with the resolved absolute directory.
func Read(dir string) (*Manifest, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("entity set path %q: %w", dir, err)
	}

	data, err := os.ReadFile(filepath.Join(abs, DescriptionFilename))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", DescriptionFilename, err)
	}
	if err := CheckSchemaVersion(&m); err != nil {
		return nil, err
	}
	m.Path = abs
	return &m, nil
}

// Write saves the manifest into the given directory as
// data_description.json.
func Write(m *Manifest, dir string) error {
	if m.SchemaVersion == "" {
		m.SchemaVersion = SchemaVersion
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, DescriptionFilename), data, 0o644)
}
