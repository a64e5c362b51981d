// Package geodata loads the static country and coordinate tables the
// resolver depends on. The file is read once at startup; the resulting
// dictionaries are immutable at runtime.
package geodata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads and parses the geodata YAML file.
type Loader struct {
	filePath string
}

// NewLoader creates a loader for the given file path.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the file, validating that every configured language
// has at least one country and every ISO code referenced by a country exists
// somewhere (codes without coordinates are allowed; the record is then
// unmapped).
func (l *Loader) Load() (*File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read geodata file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse geodata yaml: %w", err)
	}

	if len(f.Countries) == 0 {
		return nil, fmt.Errorf("geodata file %s defines no countries", l.filePath)
	}
	for lang, dict := range f.Countries {
		if len(dict) == 0 {
			return nil, fmt.Errorf("geodata file %s has an empty dictionary for language %q", l.filePath, lang)
		}
	}

	return &f, nil
}
