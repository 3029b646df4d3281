package tui

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-formstate/pkg/render"
)

// Renderer implements render.Renderer for terminal-driven sessions. Prompts
// are pull-based, so Render only records the latest frame; a Session reads it
// back before every prompt.
//
// Select and multi-select prompts remember the cursor position the user left
// them at and offer it as the default next time. Like a browser's grouped
// controls, that memory outlives a state reset unless ResetControls clears it.
type Renderer struct {
	driver   PromptDriver
	theme    Theme
	pageSize int

	mu      sync.Mutex
	frame   render.Frame
	hasLast bool
	renders int
	memory  map[string][]int
}

var (
	_ render.Renderer    = (*Renderer)(nil)
	_ render.ControlTree = (*Renderer)(nil)
)

// New constructs a TUI renderer with defaults (survey driver on stdout).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:   NewSurveyDriver(nil),
		pageSize: 10,
		memory:   make(map[string][]int),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// Render records frame as the latest view of the form.
func (r *Renderer) Render(ctx context.Context, frame render.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame = frame
	r.hasLast = true
	r.renders++
	return nil
}

// ResetControls forgets the remembered selections of fields.
func (r *Renderer) ResetControls(_ context.Context, fields []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, field := range fields {
		delete(r.memory, field)
	}
	return nil
}

// Frame returns the latest rendered frame.
func (r *Renderer) Frame() (render.Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame, r.hasLast
}

// Renders reports how many frames have been rendered.
func (r *Renderer) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

func (r *Renderer) remember(field string, indices []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memory[field] = append([]int(nil), indices...)
}

func (r *Renderer) recall(field string) ([]int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	indices, ok := r.memory[field]
	return append([]int(nil), indices...), ok
}

func (r *Renderer) info(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}
