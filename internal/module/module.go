// Package module holds the registry of runnable console modules.
package module

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ExitSignal tells the caller what to do after a module returns.
type ExitSignal int

const (
	// Back returns to the module selection menu.
	Back ExitSignal = iota
	// Quit ends the program.
	Quit
)

func (s ExitSignal) String() string {
	switch s {
	case Back:
		return "back"
	case Quit:
		return "quit"
	default:
		return fmt.Sprintf("ExitSignal(%d)", int(s))
	}
}

// Module is one selectable program.
type Module interface {
	Name() string
	Version() string
	Run(ctx context.Context) (ExitSignal, error)
}

var (
	ErrUnknownModule   = errors.New("unknown module")
	ErrDuplicateModule = errors.New("module already registered")
)

// Registry maps module names to modules. It is filled at startup.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register adds m. Names must be unique and neither name nor version may be empty.
func (r *Registry) Register(m Module) error {
	name := strings.TrimSpace(m.Name())
	if name == "" {
		return errors.New("module name must not be empty")
	}
	if strings.TrimSpace(m.Version()) == "" {
		return fmt.Errorf("module %q: version must not be empty", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.modules[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateModule, name)
	}
	r.modules[name] = m
	return nil
}

// Unregister removes name; unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.modules, name)
}

// Get returns the module registered under name.
func (r *Registry) Get(name string) (Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, name)
	}
	return m, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve looks up every name, keeping the given order.
// All unknown names are reported at once.
func (r *Registry) Resolve(names []string) ([]Module, error) {
	out := make([]Module, 0, len(names))
	var errs []error
	for _, name := range names {
		m, err := r.Get(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, m)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
