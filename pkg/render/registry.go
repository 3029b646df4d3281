package render

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrRendererNotFound is returned for names nobody registered.
	ErrRendererNotFound = errors.New("render: renderer not found")
	// ErrNoRenderer is returned when a selection names no renderer at all.
	ErrNoRenderer = errors.New("render: no renderer selected")
)

// Capabilities lists the optional contracts a renderer honours beyond
// drawing frames.
type Capabilities struct {
	// ControlTree renderers can clear grouped controls on reset.
	ControlTree bool `json:"controlTree"`
	// ConstraintReporter renderers take part in the validity gate.
	ConstraintReporter bool `json:"constraintReporter"`
}

// CapabilitiesOf inspects r. A Multi reports what its members offer, not the
// forwarding methods it always carries.
func CapabilitiesOf(r Renderer) Capabilities {
	if m, ok := r.(Multi); ok {
		var caps Capabilities
		for _, member := range m {
			c := CapabilitiesOf(member)
			caps.ControlTree = caps.ControlTree || c.ControlTree
			caps.ConstraintReporter = caps.ConstraintReporter || c.ConstraintReporter
		}
		return caps
	}
	_, tree := r.(ControlTree)
	_, reporter := r.(ConstraintReporter)
	return Capabilities{ControlTree: tree, ConstraintReporter: reporter}
}

func (c Capabilities) String() string {
	var parts []string
	if c.ControlTree {
		parts = append(parts, "control-tree")
	}
	if c.ConstraintReporter {
		parts = append(parts, "constraint-reporter")
	}
	if len(parts) == 0 {
		return "frames"
	}
	return strings.Join(parts, "+")
}

// Registry keeps the renderers a command can choose from, in registration
// order. Selections may combine several of them into a Multi.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]Renderer
}

// NewRegistry creates a registry holding renderers.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{byName: make(map[string]Renderer)}
	for _, renderer := range renderers {
		if err := r.Register(renderer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a renderer under its Name(). Names must be unique and may
// not contain the selection separator.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return errors.New("render: renderer name is required")
	}
	if strings.ContainsAny(name, ", ") {
		return fmt.Errorf("render: renderer name %q may not contain commas or spaces", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.byName[name] = renderer
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrRendererNotFound, name, strings.Join(r.order, ", "))
	}
	return renderer, nil
}

// Names returns renderer names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Capabilities reports what the named renderer supports.
func (r *Registry) Capabilities(name string) (Capabilities, error) {
	renderer, err := r.Get(name)
	if err != nil {
		return Capabilities{}, err
	}
	return CapabilitiesOf(renderer), nil
}

// Supporting lists, in registration order, the renderers whose capabilities
// satisfy match.
func (r *Registry) Supporting(match func(Capabilities) bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, name := range r.order {
		if match(CapabilitiesOf(r.byName[name])) {
			out = append(out, name)
		}
	}
	return out
}

// Select resolves a comma separated list such as "tui,html". One name yields
// that renderer; several yield a Multi drawing in the listed order.
func (r *Registry) Select(selection string) (Renderer, error) {
	var picked Multi
	seen := make(map[string]struct{})
	for _, name := range strings.Split(selection, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("render: renderer %q selected twice", name)
		}
		seen[name] = struct{}{}
		renderer, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		picked = append(picked, renderer)
	}
	switch len(picked) {
	case 0:
		return nil, ErrNoRenderer
	case 1:
		return picked[0], nil
	default:
		return picked, nil
	}
}

// Describe lists every renderer with its capabilities, e.g.
// "tui (control-tree), html (control-tree)".
func (r *Registry) Describe() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	parts := make([]string, 0, len(r.order))
	for _, name := range r.order {
		parts = append(parts, fmt.Sprintf("%s (%s)", name, CapabilitiesOf(r.byName[name])))
	}
	return strings.Join(parts, ", ")
}

// Members flattens a selection back into its renderers.
func Members(renderer Renderer) []Renderer {
	if m, ok := renderer.(Multi); ok {
		out := make([]Renderer, 0, len(m))
		for _, member := range m {
			out = append(out, Members(member)...)
		}
		return out
	}
	if renderer == nil {
		return nil
	}
	return []Renderer{renderer}
}
