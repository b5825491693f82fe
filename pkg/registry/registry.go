package registry

import (
	"fmt"
	"sync/atomic"
)

// Registry resolves model names to configurations. The table it serves can
// be replaced at any time with Swap; readers never block.
type Registry struct {
	table atomic.Pointer[Table]
}

// New returns a registry serving t.
func New(t *Table) *Registry {
	r := &Registry{}
	r.table.Store(t)
	return r
}

// NewDefault returns a registry serving the compiled-in table.
func NewDefault() (*Registry, error) {
	t, err := DefaultTable()
	if err != nil {
		return nil, fmt.Errorf("failed to load default model table: %w", err)
	}
	return New(t), nil
}

// Table returns the table currently served.
func (r *Registry) Table() *Table {
	return r.table.Load()
}

// Swap installs t and returns the table it replaced.
func (r *Registry) Swap(t *Table) *Table {
	return r.table.Swap(t)
}

// Get returns the configuration for name. Names routing to no provider fail
// with ErrUnsupportedModel and names missing from the table with ErrUnknownModel.
func (r *Registry) Get(name string) (ModelConfig, error) {
	if _, err := ProviderFor(name); err != nil {
		return nil, err
	}

	cfg, ok := r.Table().Lookup(name)
	if !ok {
		return nil, unknownModel(name)
	}
	return cfg, nil
}

// Classify returns the formula family of name.
func (r *Registry) Classify(name string) (Family, error) {
	cfg, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	return cfg.Family(), nil
}

// Models returns every configuration in the current table, sorted by name.
func (r *Registry) Models() []ModelConfig {
	return r.Table().Configs()
}
