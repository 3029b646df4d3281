package html

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formstate/pkg/render"
)

// Option configures the HTML renderer.
type Option func(*config)

type config struct {
	out       io.Writer
	templates fs.FS
	baseDir   string
	name      string
}

// WithWriter streams every rendered frame to w in addition to keeping it.
func WithWriter(w io.Writer) Option {
	return func(cfg *config) {
		cfg.out = w
	}
}

// WithTemplatesFS replaces the embedded templates. The FS must contain the
// entry template (FormTemplate unless WithTemplate says otherwise).
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithBaseDir loads templates from a directory on disk, ahead of the
// embedded bundle.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithTemplate overrides the entry template name.
func WithTemplate(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// Renderer renders frames to HTML markup with pongo2. Output is a pure
// function of the frame except for pending control resets, which flag the
// affected controls on the next render so client code can clear them.
type Renderer struct {
	engine *engine
	out    io.Writer
	name   string

	mu      sync.Mutex
	last    string
	pending map[string]struct{}
}

var (
	_ render.Renderer    = (*Renderer)(nil)
	_ render.ControlTree = (*Renderer)(nil)
)

// New constructs an HTML renderer backed by the embedded templates.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{
		templates: TemplatesFS(),
		name:      FormTemplate,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	eng, err := newEngine(cfg.templates, cfg.baseDir)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		engine:  eng,
		out:     cfg.out,
		name:    cfg.name,
		pending: make(map[string]struct{}),
	}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// Render draws frame and stores the markup.
func (r *Renderer) Render(ctx context.Context, frame render.Frame) error {
	if ctx == nil {
		return errors.New("html: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if frame.Schema == nil {
		return errors.New("html: frame has no schema")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data := pongo2.Context{
		"form":   formView(frame),
		"fields": fieldViews(frame, r.pending),
	}
	var buf bytes.Buffer
	if err := r.engine.execute(r.name, data, &buf); err != nil {
		return err
	}
	r.pending = make(map[string]struct{})
	r.last = buf.String()

	if r.out != nil {
		if _, err := io.WriteString(r.out, r.last); err != nil {
			return err
		}
	}
	return nil
}

// ResetControls flags fields so the next render marks them for clearing.
func (r *Renderer) ResetControls(_ context.Context, fields []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, field := range fields {
		r.pending[field] = struct{}{}
	}
	return nil
}

// Last returns the most recent markup.
func (r *Renderer) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
