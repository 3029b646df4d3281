package widgets

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/normalize"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := fieldschema.Field{
		Name:   "comments",
		Type:   fieldschema.TypeText,
		Widget: "textarea",
	}

	if got, ok := reg.Resolve(field); !ok || got != WidgetTextArea {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		field  fieldschema.Field
		expect string
	}{
		{
			name:   "boolean checkbox",
			field:  fieldschema.Field{Type: fieldschema.TypeBoolean},
			expect: WidgetCheckbox,
		},
		{
			name:   "integer list multiselect",
			field:  fieldschema.Field{Type: fieldschema.TypeIntegerList, Options: "tastes"},
			expect: WidgetMultiSelect,
		},
		{
			name:   "required choice radio",
			field:  fieldschema.Field{Type: fieldschema.TypeInteger, Options: "eyeColors", Required: true},
			expect: WidgetRadio,
		},
		{
			name:   "optional choice select",
			field:  fieldschema.Field{Type: fieldschema.TypeInteger, Options: "kinds"},
			expect: WidgetSelect,
		},
		{
			name:   "plain integer text",
			field:  fieldschema.Field{Type: fieldschema.TypeInteger},
			expect: WidgetText,
		},
		{
			name:   "long text textarea",
			field:  fieldschema.Field{Type: fieldschema.TypeText, MaxLength: 1000},
			expect: WidgetTextArea,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := reg.Resolve(tc.field)
			if !ok || got != tc.expect {
				t.Fatalf("expected %q, got %q (ok=%v)", tc.expect, got, ok)
			}
		})
	}
}

func TestRegister_HigherPriorityWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register("toggle", 100, func(field fieldschema.Field) bool {
		return field.Type == fieldschema.TypeBoolean
	})

	if got, _ := reg.Resolve(fieldschema.Field{Type: fieldschema.TypeBoolean}); got != "toggle" {
		t.Fatalf("expected custom toggle, got %q", got)
	}
}

func TestGroupedFields(t *testing.T) {
	schema := fieldschema.MustSchema(
		fieldschema.Field{Name: "name", Type: fieldschema.TypeText},
		fieldschema.Field{Name: "eyeColor", Type: fieldschema.TypeInteger, Options: "eyeColors", Required: true},
		fieldschema.Field{Name: "wearsGlasses", Type: fieldschema.TypeBoolean},
		fieldschema.Field{Name: "kind", Type: fieldschema.TypeInteger, Options: "kinds"},
		fieldschema.Field{Name: "favTastes", Type: fieldschema.TypeIntegerList, Options: "tastes"},
	)

	got := NewRegistry().GroupedFields(schema)
	want := []string{"eyeColor", "kind", "favTastes"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("grouped fields mismatch (-want +got):\n%s", diff)
	}
}

func TestControlKind(t *testing.T) {
	cases := map[string]normalize.ControlKind{
		WidgetCheckbox:    normalize.Checkbox,
		WidgetMultiSelect: normalize.MultiSelect,
		WidgetRadio:       normalize.SingleValue,
		WidgetSelect:      normalize.SingleValue,
		WidgetTextArea:    normalize.SingleValue,
	}
	for widget, want := range cases {
		if got := ControlKind(widget); got != want {
			t.Fatalf("%s: expected %s, got %s", widget, want, got)
		}
	}
}
