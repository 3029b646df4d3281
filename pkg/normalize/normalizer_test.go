package normalize

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/options"
	"github.com/goliatone/go-formstate/pkg/state"
)

func newNormalizer(t *testing.T) (*Normalizer, *state.Store, *options.Set) {
	t.Helper()
	schema := fieldschema.MustSchema(
		fieldschema.Field{Name: "name", Type: fieldschema.TypeText},
		fieldschema.Field{Name: "age", Type: fieldschema.TypeInteger},
		fieldschema.Field{Name: "eyeColor", Type: fieldschema.TypeInteger, Options: "eyeColors"},
		fieldschema.Field{Name: "wearsGlasses", Type: fieldschema.TypeBoolean},
		fieldschema.Field{Name: "favTastes", Type: fieldschema.TypeIntegerList, Options: "tastes"},
		fieldschema.Field{Name: "tags", Type: fieldschema.TypeIntegerList},
	)
	store, err := state.NewStore(schema)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	set := options.NewSet(schema.Collections()...)
	n, err := New(schema, store, set)
	if err != nil {
		t.Fatalf("new normalizer: %v", err)
	}
	return n, store, set
}

func TestCoerce_Table(t *testing.T) {
	n, _, _ := newNormalizer(t)

	cases := []struct {
		name  string
		field string
		raw   RawControl
		want  any
		err   error
	}{
		{"text passes through", "name", SingleValueInput("  Jane "), "  Jane ", nil},
		{"empty integer is unset", "age", SingleValueInput(""), fieldschema.Unset, nil},
		{"integer trims", "age", SingleValueInput(" 42 "), 42, nil},
		{"negative integer", "age", SingleValueInput("-3"), -3, nil},
		{"zero is a real id", "eyeColor", SingleValueInput("0"), 0, nil},
		{"non integer", "age", SingleValueInput("4.2"), nil, ErrNotInteger},
		{"sentinel collision", "age", SingleValueInput(strconv.Itoa(fieldschema.Unset)), nil, ErrSentinelValue},
		{"checkbox checked", "wearsGlasses", CheckboxInput(true), true, nil},
		{"checkbox unchecked", "wearsGlasses", CheckboxInput(false), false, nil},
		{"boolean from on", "wearsGlasses", SingleValueInput("on"), true, nil},
		{"boolean from empty", "wearsGlasses", SingleValueInput(""), false, nil},
		{"boolean from false", "wearsGlasses", SingleValueInput("FALSE"), false, nil},
		{"boolean garbage", "wearsGlasses", SingleValueInput("maybe"), nil, ErrNotBoolean},
		{"selection keeps order", "tags", MultiSelectInput("3", "1", "2"), []int{3, 1, 2}, nil},
		{"empty selection", "tags", MultiSelectInput(), []int{}, nil},
		{"duplicate selection", "tags", MultiSelectInput("1", "1"), nil, ErrDuplicateSelection},
		{"blank selection item", "tags", MultiSelectInput(""), nil, ErrNotInteger},
		{"checkbox on text", "name", CheckboxInput(true), nil, ErrControlMismatch},
		{"multi on integer", "age", MultiSelectInput("1"), nil, ErrControlMismatch},
		{"single on list", "tags", SingleValueInput("1"), nil, ErrControlMismatch},
		{"unknown field", "nope", SingleValueInput("x"), nil, ErrUnknownField},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := n.Coerce(tc.field, tc.raw)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				var coercionErr *CoercionError
				if !errors.As(err, &coercionErr) || coercionErr.Field != tc.field {
					t.Fatalf("expected *CoercionError for %s, got %T", tc.field, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("coerce: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_MembershipAgainstReadyCollections(t *testing.T) {
	n, store, set := newNormalizer(t)

	if _, err := n.Apply("eyeColor", SingleValueInput("5")); !errors.Is(err, ErrOptionsNotReady) {
		t.Fatalf("expected ErrOptionsNotReady while pending, got %v", err)
	}
	if _, ok := store.Snapshot().Integer("eyeColor"); ok {
		t.Fatalf("an id rejected while pending must not be stored")
	}
	if _, err := n.Apply("eyeColor", SingleValueInput("")); err != nil {
		t.Fatalf("clearing while pending: %v", err)
	}
	if _, err := n.Apply("favTastes", MultiSelectInput()); err != nil {
		t.Fatalf("empty selection while pending: %v", err)
	}

	if err := set.Resolve("eyeColors", []options.Option{{ID: 0, Label: "Brown"}, {ID: 1, Label: "Blue"}}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := set.Resolve("tastes", []options.Option{{ID: 1, Label: "Salty"}}); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if _, err := n.Apply("eyeColor", SingleValueInput("1")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	_, err := n.Apply("eyeColor", SingleValueInput("7"))
	if !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if id, _ := store.Snapshot().Integer("eyeColor"); id != 1 {
		t.Fatalf("rejected input must keep the prior value, got %d", id)
	}

	if _, err := n.Apply("eyeColor", SingleValueInput("")); err != nil {
		t.Fatalf("clearing a selection must be allowed: %v", err)
	}
	if _, err := n.Apply("favTastes", MultiSelectInput("1", "2")); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption for list, got %v", err)
	}
}

func TestApply_UnavailableCollectionsAcceptNoIDs(t *testing.T) {
	n, _, set := newNormalizer(t)
	if err := set.Fail("tastes", errors.New("down")); err != nil {
		t.Fatalf("fail: %v", err)
	}

	_, err := n.Apply("favTastes", MultiSelectInput("1"))
	if !errors.Is(err, ErrOptionsNotReady) {
		t.Fatalf("expected ErrOptionsNotReady, got %v", err)
	}
	var coercionErr *CoercionError
	if !errors.As(err, &coercionErr) || coercionErr.Message() != "Options are still loading." {
		t.Fatalf("expected a coercion error with a loading message, got %v", err)
	}
}

func TestApply_StoreErrorsPassThrough(t *testing.T) {
	schema := fieldschema.MustSchema(fieldschema.Field{Name: "name", Type: fieldschema.TypeText})
	boom := errors.New("store down")
	n, err := New(schema, failingWriter{err: boom}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = n.Apply("name", SingleValueInput("x"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	var coercionErr *CoercionError
	if errors.As(err, &coercionErr) {
		t.Fatalf("store errors must not be reported as coercion errors")
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	schema := fieldschema.MustSchema(fieldschema.Field{Name: "name", Type: fieldschema.TypeText})
	if _, err := New(nil, failingWriter{}, nil); err == nil {
		t.Fatalf("expected error without schema")
	}
	if _, err := New(schema, nil, nil); err == nil {
		t.Fatalf("expected error without store")
	}
}

func TestCoercionError_Message(t *testing.T) {
	cases := map[error]string{
		ErrNotInteger:         "Enter a whole number.",
		ErrNotBoolean:         "Enter yes or no.",
		ErrUnknownOption:      "Choose one of the listed options.",
		ErrOptionsNotReady:    "Options are still loading.",
		ErrDuplicateSelection: "Each option can only be selected once.",
		ErrControlMismatch:    "Invalid value.",
	}
	for cause, want := range cases {
		err := &CoercionError{Field: "f", Raw: SingleValueInput("x"), Err: cause}
		if got := err.Message(); got != want {
			t.Fatalf("%v: expected %q, got %q", cause, want, got)
		}
	}
}

type failingWriter struct {
	err error
}

func (w failingWriter) Set(string, any) error { return w.err }
