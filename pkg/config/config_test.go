package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/components/catalog"
	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/formctl"
	"github.com/goliatone/go-formstate/pkg/normalize"
	"github.com/goliatone/go-formstate/pkg/options"
)

const profileYAML = `
optionsTimeout: 5s
fields:
  - name: name
    type: text
    label: Name
  - name: eyeColor
    type: integer
    label: Eye color
    required: true
    options: eyeColors
  - name: favTastes
    type: integer-list
    options: tastes
    default: [1]
options:
  eyeColors:
    kind: delayed
    delay: 10ms
    items:
      - {id: 0, label: Brown}
      - {id: 1, label: Blue}
  tastes:
    kind: file
    path: tastes.yaml
`

func TestLoad_Profile(t *testing.T) {
	cfg, err := Load(strings.NewReader(profileYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OptionsTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.OptionsTimeout)
	}
	src := cfg.Options["eyeColors"]
	if src.Kind != SourceDelayed || src.Delay != 10*time.Millisecond {
		t.Fatalf("unexpected eyeColors source: %+v", src)
	}
	want := []options.Option{{ID: 0, Label: "Brown"}, {ID: 1, Label: "Blue"}}
	if diff := cmp.Diff(want, src.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}

	schema, err := cfg.Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	def, _ := schema.Default("favTastes")
	if diff := cmp.Diff([]int{1}, def); diff != "" {
		t.Fatalf("default mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":        ``,
		"no fields":    "fields: []\n",
		"unknown key":  "fields:\n  - {name: a, type: text}\nbogus: 1\n",
		"missing kind": "fields:\n  - {name: a, type: integer, options: c}\noptions:\n  c: {}\n",
		"bad kind":     "fields:\n  - {name: a, type: integer, options: c}\noptions:\n  c: {kind: ftp}\n",
		"file no path": "fields:\n  - {name: a, type: integer, options: c}\noptions:\n  c: {kind: file}\n",
		"http no url":  "fields:\n  - {name: a, type: integer, options: c}\noptions:\n  c: {kind: http}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_InvalidSchemaSurfacesOnBuild(t *testing.T) {
	cfg, err := Load(strings.NewReader("fields:\n  - {name: a, type: text, options: c}\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := cfg.Schema(); err == nil {
		t.Fatalf("expected schema error for options on a text field")
	}
}

func TestEnvApply(t *testing.T) {
	cfg := &Config{Fields: []fieldschema.Field{{Name: "a", Type: fieldschema.TypeText}}}
	if err := (Env{OptionsTimeout: "250ms", Disabled: "true"}).Apply(cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.OptionsTimeout != 250*time.Millisecond || !cfg.Disabled {
		t.Fatalf("unexpected config after env: %+v", cfg)
	}

	if err := (Env{OptionsTimeout: "soon"}).Apply(cfg); err == nil {
		t.Fatalf("expected duration parse error")
	}
	if err := (Env{Disabled: "maybe"}).Apply(cfg); err == nil {
		t.Fatalf("expected bool parse error")
	}
}

func TestApplyEnvReadsProcessEnvironment(t *testing.T) {
	t.Setenv("FORMSTATE_OPTIONS_TIMEOUT", "3s")
	t.Setenv("FORMSTATE_DISABLED", "")

	cfg := &Config{Fields: []fieldschema.Field{{Name: "a", Type: fieldschema.TypeText}}}
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.OptionsTimeout != 3*time.Second {
		t.Fatalf("expected 3s from env, got %s", cfg.OptionsTimeout)
	}
	if cfg.Disabled {
		t.Fatalf("expected disabled to stay false")
	}
}

func TestControllerOptionsEndToEnd(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tastes.yaml"), []byte("- {id: 1, name: Salty}\n- {id: 3, name: Sweet}\n"), 0o644); err != nil {
		t.Fatalf("write tastes: %v", err)
	}
	doc := strings.ReplaceAll(profileYAML, "path: tastes.yaml", "path: "+filepath.Join(dir, "tastes.yaml"))
	cfg, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	schema, err := cfg.Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	ctx := context.Background()
	opts, closeFn, err := cfg.ControllerOptions(ctx)
	if err != nil {
		t.Fatalf("controller options: %v", err)
	}
	defer closeFn()

	var saved []formctl.Submission
	opts = append(opts, formctl.WithListener(formctl.ListenerFuncs{
		OnSaved: func(_ context.Context, s formctl.Submission) { saved = append(saved, s) },
	}))
	ctl, err := formctl.New(schema, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if err := ctl.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := ctl.Wait(waitCtx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	if err := ctl.InputChanged(ctx, "eyeColor", normalize.SingleValueInput("1")); err != nil {
		t.Fatalf("input: %v", err)
	}
	if err := ctl.InputChanged(ctx, "favTastes", normalize.MultiSelectInput("3")); err != nil {
		t.Fatalf("input: %v", err)
	}
	verdict, err := ctl.Submit(ctx)
	if err != nil || !verdict.Submittable {
		t.Fatalf("expected submit to succeed, verdict %+v err %v", verdict, err)
	}
	if len(saved) != 1 {
		t.Fatalf("expected one saved event, got %d", len(saved))
	}
	if diff := cmp.Diff([]int{3}, saved[0].State.IntegerList("favTastes")); diff != "" {
		t.Fatalf("favTastes mismatch (-want +got):\n%s", diff)
	}
}

func TestSuppliers_HTTPSourceAgainstCatalog(t *testing.T) {
	mux := http.NewServeMux()
	if _, err := catalog.RegisterRoutes(mux, ""); err != nil {
		t.Fatalf("register catalog: %v", err)
	}
	srv := httptest.NewServer(mux)
	defer srv.Close()

	doc := `
fields:
  - name: kind
    type: integer
    options: kinds
options:
  kinds:
    kind: http
    url: ` + catalog.URLTemplate(srv.URL, "") + `
`
	cfg, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	suppliers, closers, err := cfg.Suppliers(context.Background())
	if err != nil {
		t.Fatalf("suppliers: %v", err)
	}
	defer closeAll(closers)

	got, err := suppliers["kinds"].Load(context.Background(), "kinds")
	if err != nil {
		t.Fatalf("load kinds: %v", err)
	}
	want := []options.Option{{ID: 0, Label: "Beatles"}, {ID: 1, Label: "Elvis"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}
