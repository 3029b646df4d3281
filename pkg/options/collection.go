package options

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
)

var (
	// ErrAlreadyResolved is returned when a collection is written twice.
	ErrAlreadyResolved = errors.New("options: collection already resolved")
	// ErrInvalidOption is wrapped when a resolved list contains a duplicate id
	// or an id equal to fieldschema.Unset.
	ErrInvalidOption = errors.New("options: invalid option")
	// ErrUnknownCollection is returned for writes to an undeclared collection.
	ErrUnknownCollection = errors.New("options: unknown collection")
)

// Option is a single selectable choice.
type Option struct {
	ID    int    `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Status tracks a collection's single transition out of Pending.
type Status string

const (
	StatusPending     Status = "pending"
	StatusReady       Status = "ready"
	StatusUnavailable Status = "unavailable"
)

// Collection is a read-only view of one named option list.
type Collection struct {
	Name    string
	Status  Status
	Options []Option
	Err     error
}

// Ready reports whether the collection resolved with at least one option.
func (c Collection) Ready() bool {
	return c.Status == StatusReady && len(c.Options) > 0
}

// Contains reports whether id is one of the collection's options.
func (c Collection) Contains(id int) bool {
	for _, opt := range c.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// Label returns the label registered for id.
func (c Collection) Label(id int) (string, bool) {
	for _, opt := range c.Options {
		if opt.ID == id {
			return opt.Label, true
		}
	}
	return "", false
}

func (c Collection) clone() Collection {
	out := c
	if c.Options != nil {
		out.Options = append([]Option(nil), c.Options...)
	}
	return out
}

// Set holds every collection a form declares. Each collection is written at
// most once. Set is not safe for concurrent use; the controller serialises
// access.
type Set struct {
	order       []string
	collections map[string]*Collection
}

// NewSet declares the named collections, all Pending.
func NewSet(names ...string) *Set {
	s := &Set{collections: make(map[string]*Collection, len(names))}
	for _, name := range names {
		if _, ok := s.collections[name]; ok || name == "" {
			continue
		}
		s.order = append(s.order, name)
		s.collections[name] = &Collection{Name: name, Status: StatusPending}
	}
	return s
}

// Resolve stores opts as the collection's contents.
func (s *Set) Resolve(name string, opts []Option) error {
	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	if c.Status != StatusPending {
		return fmt.Errorf("%w: %q", ErrAlreadyResolved, name)
	}
	if err := validateOptions(opts); err != nil {
		return fmt.Errorf("options: collection %q: %w", name, err)
	}
	c.Status = StatusReady
	c.Options = append([]Option{}, opts...)
	return nil
}

// Fail marks the collection as permanently unavailable.
func (s *Set) Fail(name string, cause error) error {
	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	if c.Status != StatusPending {
		return fmt.Errorf("%w: %q", ErrAlreadyResolved, name)
	}
	c.Status = StatusUnavailable
	c.Err = cause
	return nil
}

// Get returns a copy of the named collection.
func (s *Set) Get(name string) (Collection, bool) {
	if s == nil {
		return Collection{}, false
	}
	c, ok := s.collections[name]
	if !ok {
		return Collection{}, false
	}
	return c.clone(), true
}

// Names returns the declared collection names in declaration order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// View returns copies of every collection keyed by name.
func (s *Set) View() map[string]Collection {
	if s == nil {
		return nil
	}
	out := make(map[string]Collection, len(s.collections))
	for name, c := range s.collections {
		out[name] = c.clone()
	}
	return out
}

// Settled reports whether no collection is still pending.
func (s *Set) Settled() bool {
	for _, c := range s.collections {
		if c.Status == StatusPending {
			return false
		}
	}
	return true
}

func validateOptions(opts []Option) error {
	seen := make(map[int]struct{}, len(opts))
	for _, opt := range opts {
		if opt.ID == fieldschema.Unset {
			return fmt.Errorf("%w: id %d is reserved", ErrInvalidOption, opt.ID)
		}
		if _, dup := seen[opt.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidOption, opt.ID)
		}
		seen[opt.ID] = struct{}{}
	}
	return nil
}
