package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/normalize"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText        = "text"
	WidgetTextArea    = "textarea"
	WidgetCheckbox    = "checkbox"
	WidgetRadio       = "radio"
	WidgetSelect      = "select"
	WidgetMultiSelect = "multiselect"
)

// Matcher decides whether a widget renderer should handle the supplied field.
type Matcher func(field fieldschema.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit hints or registered
// matchers. Higher priority wins; ties fall back to registration order. An
// empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit Widget hint is
// honoured before matcher evaluation.
func (r *Registry) Resolve(field fieldschema.Field) (string, bool) {
	if explicit := strings.TrimSpace(field.Widget); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// ResolveAll maps every schema field to its widget, falling back to text.
func (r *Registry) ResolveAll(schema *fieldschema.Schema) map[string]string {
	out := make(map[string]string, schema.Len())
	for _, field := range schema.Fields() {
		widget, ok := r.Resolve(field)
		if !ok {
			widget = WidgetText
		}
		out[field.Name] = widget
	}
	return out
}

// GroupedFields lists fields rendered with grouped or exclusive controls
// (radio groups, selects, multi-selects). Those controls keep their visual
// selection across a form reset unless they are explicitly cleared.
func (r *Registry) GroupedFields(schema *fieldschema.Schema) []string {
	var out []string
	for _, field := range schema.Fields() {
		widget, _ := r.Resolve(field)
		if IsGrouped(widget) {
			out = append(out, field.Name)
		}
	}
	return out
}

// IsGrouped reports whether widget is a grouped control.
func IsGrouped(widget string) bool {
	switch widget {
	case WidgetRadio, WidgetSelect, WidgetMultiSelect:
		return true
	default:
		return false
	}
}

// ControlKind reports the raw value shape a widget produces.
func ControlKind(widget string) normalize.ControlKind {
	switch widget {
	case WidgetCheckbox:
		return normalize.Checkbox
	case WidgetMultiSelect:
		return normalize.MultiSelect
	default:
		return normalize.SingleValue
	}
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetCheckbox, 90, func(field fieldschema.Field) bool {
		return field.Type == fieldschema.TypeBoolean
	})

	r.Register(WidgetMultiSelect, 80, func(field fieldschema.Field) bool {
		return field.Type == fieldschema.TypeIntegerList
	})

	// Required single choices render as radio groups so the empty choice is
	// never offered; optional ones get a select with a blank entry.
	r.Register(WidgetRadio, 70, func(field fieldschema.Field) bool {
		return field.Type == fieldschema.TypeInteger && field.Options != "" && field.Required
	})

	r.Register(WidgetSelect, 60, func(field fieldschema.Field) bool {
		return field.Type == fieldschema.TypeInteger && field.Options != ""
	})

	r.Register(WidgetTextArea, 50, func(field fieldschema.Field) bool {
		return field.Type == fieldschema.TypeText && field.MaxLength > 255
	})

	r.Register(WidgetText, 10, func(field fieldschema.Field) bool {
		return field.Type == fieldschema.TypeText || field.Type == fieldschema.TypeInteger
	})
}
