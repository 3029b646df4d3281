package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/options"
	"github.com/goliatone/go-formstate/pkg/render"
)

// Collection names used by the profile form.
const (
	CollectionEyeColors = "eyeColors"
	CollectionKinds     = "kinds"
	CollectionTastes    = "tastes"
)

// EyeColors, Kinds and Tastes are the option lists the profile form loads.
var (
	EyeColors = []options.Option{{ID: 0, Label: "Brown"}, {ID: 1, Label: "Blue"}, {ID: 2, Label: "Green"}}
	Kinds     = []options.Option{{ID: 0, Label: "Beatles"}, {ID: 1, Label: "Elvis"}}
	Tastes    = []options.Option{
		{ID: 0, Label: "Bitter"},
		{ID: 1, Label: "Salty"},
		{ID: 2, Label: "Sour"},
		{ID: 3, Label: "Sweet"},
		{ID: 4, Label: "Umami"},
	}
)

// ProfileFields returns the demo profile form definition.
func ProfileFields() []fieldschema.Field {
	return []fieldschema.Field{
		{Name: "name", Type: fieldschema.TypeText, Label: "Name", Placeholder: "Your name"},
		{Name: "eyeColor", Type: fieldschema.TypeInteger, Label: "Eye color", Required: true, Options: CollectionEyeColors},
		{Name: "wearsGlasses", Type: fieldschema.TypeBoolean, Label: "Wears glasses"},
		{Name: "kind", Type: fieldschema.TypeInteger, Label: "Kind", Options: CollectionKinds, AwaitOptions: true},
		{Name: "favTastes", Type: fieldschema.TypeIntegerList, Label: "Favourite tastes", Options: CollectionTastes, AwaitOptions: true},
		{Name: "comments", Type: fieldschema.TypeText, Label: "Comments", Widget: "textarea"},
	}
}

// ProfileSchema builds the demo profile schema, failing the test on error.
func ProfileSchema(t testing.TB) *fieldschema.Schema {
	t.Helper()

	schema, err := fieldschema.NewSchema(ProfileFields()...)
	if err != nil {
		t.Fatalf("profile schema: %v", err)
	}
	return schema
}

// ProfileSuppliers returns suppliers for every profile collection. The eye
// color list resolves after eyeColorDelay; zero resolves immediately.
func ProfileSuppliers(eyeColorDelay time.Duration) map[string]options.Supplier {
	eyeColors := options.Static(EyeColors...)
	if eyeColorDelay > 0 {
		eyeColors = options.Delayed(eyeColorDelay, EyeColors...)
	}
	return map[string]options.Supplier{
		CollectionEyeColors: eyeColors,
		CollectionKinds:     options.Static(Kinds...),
		CollectionTastes:    options.Static(Tastes...),
	}
}

// RecordingRenderer keeps every frame it receives and every control reset it
// is asked for. It is safe for concurrent use.
type RecordingRenderer struct {
	mu     sync.Mutex
	frames []render.Frame
	resets [][]string
	// Err, when set, is returned from Render.
	Err error
}

// Name implements render.Renderer.
func (r *RecordingRenderer) Name() string { return "recording" }

// Render implements render.Renderer.
func (r *RecordingRenderer) Render(_ context.Context, frame render.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
	return r.Err
}

// ResetControls implements render.ControlTree.
func (r *RecordingRenderer) ResetControls(_ context.Context, fields []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets = append(r.resets, append([]string(nil), fields...))
	return nil
}

// Frames returns a copy of the recorded frames.
func (r *RecordingRenderer) Frames() []render.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]render.Frame(nil), r.frames...)
}

// Last returns the most recent frame.
func (r *RecordingRenderer) Last() (render.Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return render.Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}

// Resets returns the field lists passed to ResetControls.
func (r *RecordingRenderer) Resets() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.resets...)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return string(data)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}
