// Package manifest handles langcheck.toml campaign configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a langcheck.toml campaign configuration.
type Manifest struct {
	Campaign Campaign     `toml:"campaign"`
	Fuzz     FuzzConfig   `toml:"fuzz"`
	Report   ReportConfig `toml:"report"`

	// Dir is the directory containing the langcheck.toml file (set at load time).
	Dir string `toml:"-"`
}

// Campaign contains campaign metadata.
type Campaign struct {
	Name     string `toml:"name"`
	Contract string `toml:"contract"`
}

// FuzzConfig configures the fuzz driver.
type FuzzConfig struct {
	Budget    int   `toml:"budget"`
	Seed      int64 `toml:"seed"`
	TimeoutMS int   `toml:"timeout-ms"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	Database string `toml:"database"`
	Persist  bool   `toml:"persist"`
}

// Load parses a langcheck.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "langcheck.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Fuzz.Budget == 0 {
		m.Fuzz.Budget = 50
	}
	if m.Report.Database == "" {
		m.Report.Database = "langcheck.db"
	}

	if err := m.validate(path); err != nil {
		return nil, err
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a langcheck.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "langcheck.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) validate(path string) error {
	if m.Campaign.Contract == "" {
		return fmt.Errorf("%s: campaign.contract is required", path)
	}
	if m.Fuzz.Budget < 0 {
		return fmt.Errorf("%s: fuzz.budget cannot be negative", path)
	}
	if m.Fuzz.TimeoutMS < 0 {
		return fmt.Errorf("%s: fuzz.timeout-ms cannot be negative", path)
	}
	return nil
}

// DatabasePath returns the absolute path of the report database.
func (m *Manifest) DatabasePath() string {
	if filepath.IsAbs(m.Report.Database) {
		return m.Report.Database
	}
	return filepath.Join(m.Dir, m.Report.Database)
}
