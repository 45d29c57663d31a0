package dice

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// yamlPresetsFile is the top-level YAML structure for preset files.
type yamlPresetsFile struct {
	Presets map[string][]string `yaml:"presets"`
}

// Presets maps a preset name to a ready-to-play dice Set.
type Presets map[string]*Set

// Names returns the preset names in sorted order.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPresets reads and validates a YAML preset file of the form:
//
//	presets:
//	  classic:
//	    - "2,2,4,4,9,9"
//	    - "1,1,6,6,8,8"
//	    - "3,3,5,5,7,7"
//
// Precondition: path must point to a readable YAML file.
// Postcondition: every returned Set satisfies the same rules as ParseSet.
func LoadPresets(path string) (Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dice: reading preset file: %w", err)
	}

	var file yamlPresetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("dice: parsing preset file %s: %w", path, err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("dice: preset file %s defines no presets", path)
	}

	presets := make(Presets, len(file.Presets))
	for name, specs := range file.Presets {
		set, err := ParseSet(specs)
		if err != nil {
			return nil, fmt.Errorf("dice: preset %q: %w", name, err)
		}
		presets[name] = set
	}
	return presets, nil
}
