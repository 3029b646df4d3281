package options

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
)

func TestSet_ResolveOnce(t *testing.T) {
	set := NewSet("eyeColors", "tastes", "eyeColors", "")
	if diff := cmp.Diff([]string{"eyeColors", "tastes"}, set.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if set.Settled() {
		t.Fatalf("expected pending collections")
	}

	opts := []Option{{ID: 0, Label: "Brown"}, {ID: 1, Label: "Blue"}}
	if err := set.Resolve("eyeColors", opts); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	opts[0].Label = "mutated"

	coll, ok := set.Get("eyeColors")
	if !ok || !coll.Ready() {
		t.Fatalf("expected ready collection, got %+v", coll)
	}
	if label, _ := coll.Label(0); label != "Brown" {
		t.Fatalf("collection aliased caller slice, label %q", label)
	}
	if !coll.Contains(1) || coll.Contains(2) {
		t.Fatalf("unexpected membership for %+v", coll.Options)
	}

	if err := set.Resolve("eyeColors", nil); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
	if err := set.Fail("eyeColors", errors.New("late")); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved on fail, got %v", err)
	}
	if err := set.Resolve("missing", nil); !errors.Is(err, ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}

	cause := errors.New("backend down")
	if err := set.Fail("tastes", cause); err != nil {
		t.Fatalf("fail: %v", err)
	}
	tastes, _ := set.Get("tastes")
	if tastes.Status != StatusUnavailable || !errors.Is(tastes.Err, cause) || tastes.Ready() {
		t.Fatalf("unexpected failed collection %+v", tastes)
	}
	if !set.Settled() {
		t.Fatalf("expected set to be settled")
	}
}

func TestSet_RejectsInvalidOptions(t *testing.T) {
	cases := map[string][]Option{
		"duplicate": {{ID: 1, Label: "a"}, {ID: 1, Label: "b"}},
		"reserved":  {{ID: fieldschema.Unset, Label: "x"}},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			set := NewSet("c")
			if err := set.Resolve("c", opts); !errors.Is(err, ErrInvalidOption) {
				t.Fatalf("expected ErrInvalidOption, got %v", err)
			}
			coll, _ := set.Get("c")
			if coll.Status != StatusPending {
				t.Fatalf("invalid list must leave the collection pending, got %s", coll.Status)
			}
		})
	}
}

func TestCollection_ReadyButEmpty(t *testing.T) {
	set := NewSet("c")
	if err := set.Resolve("c", nil); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	coll, _ := set.Get("c")
	if coll.Status != StatusReady || coll.Ready() {
		t.Fatalf("expected resolved-but-empty collection not to count as ready, got %+v", coll)
	}
}

func TestSet_ViewIsCopy(t *testing.T) {
	set := NewSet("c")
	_ = set.Resolve("c", []Option{{ID: 1, Label: "One"}})
	view := set.View()
	view["c"].Options[0] = Option{ID: 9}
	coll, _ := set.Get("c")
	if coll.Options[0].ID != 1 {
		t.Fatalf("view leaked internal options")
	}
}
