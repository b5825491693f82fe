package registry

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var defaultTableYAML []byte

// tableFile is the on-disk layout of a model table.
type tableFile struct {
	Version string `yaml:"version"`
	OpenAI  struct {
		Patch map[string]*PatchConfig `yaml:"patch"`
		Tile  map[string]*TileConfig  `yaml:"tile"`
	} `yaml:"openai"`
	Gemini map[string]*GeminiConfig `yaml:"gemini"`
}

// Parse builds a Table from YAML data.
func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse model table: %w", err)
	}

	var configs []ModelConfig
	for _, name := range sortedKeys(f.OpenAI.Patch) {
		cfg := f.OpenAI.Patch[name]
		if cfg == nil {
			cfg = &PatchConfig{}
		}
		cfg.Name = name
		configs = append(configs, cfg)
	}
	for _, name := range sortedKeys(f.OpenAI.Tile) {
		cfg := f.OpenAI.Tile[name]
		if cfg == nil {
			cfg = &TileConfig{}
		}
		cfg.Name = name
		configs = append(configs, cfg)
	}
	for _, name := range sortedKeys(f.Gemini) {
		cfg := f.Gemini[name]
		if cfg == nil {
			cfg = &GeminiConfig{}
		}
		cfg.Name = name
		configs = append(configs, cfg)
	}

	if len(configs) == 0 {
		return nil, ValidationError{Errors: []FieldError{{Field: "models", Message: "table defines no models"}}}
	}

	return NewTable(f.Version, configs...)
}

// LoadFile reads and parses a model table file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model table file %q: %w", path, err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("model table file %q: %w", path, err)
	}
	return t, nil
}

// DefaultTable returns the table compiled into the binary.
func DefaultTable() (*Table, error) {
	return Parse(defaultTableYAML)
}

// DefaultTableYAML returns a copy of the compiled-in table source, useful as
// a starting point for a custom table file.
func DefaultTableYAML() []byte {
	out := make([]byte, len(defaultTableYAML))
	copy(out, defaultTableYAML)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
