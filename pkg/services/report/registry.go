package report

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrReportNotFound = errors.New("report not found")

// Registry keeps report definitions by name.
type Registry interface {
	// Register adds a definition; names are unique.
	Register(def Definition) error
	Get(name string) (Definition, error)
	// List returns every definition ordered by name.
	List() []Definition
}

type registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

func NewRegistry(defs ...Definition) (Registry, error) {
	r := &registry{defs: make(map[string]Definition)}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *registry) Register(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("report %q is already registered", def.Name)
	}

	r.defs[def.Name] = def
	return nil
}

func (r *registry) Get(name string) (Definition, error) {
	r.mu.RLock()
	def, exists := r.defs[name]
	r.mu.RUnlock()

	if !exists {
		return Definition{}, fmt.Errorf("%w: %q", ErrReportNotFound, name)
	}
	return def, nil
}

func (r *registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
