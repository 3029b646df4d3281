package html

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// engine wraps a pongo2 template set with a compiled-template cache.
type engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
}

func newEngine(files fs.FS, baseDir string) (*engine, error) {
	var loaders []pongo2.TemplateLoader
	if baseDir = strings.TrimSpace(baseDir); baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(baseDir)
		if err != nil {
			return nil, fmt.Errorf("html: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(files))
	}
	if len(loaders) == 0 {
		return nil, errors.New("html: need to provide either base dir or fs.FS")
	}

	registerDefaultFilters()
	return &engine{
		templateSet: pongo2.NewSet("formstate", loaders...),
		templates:   make(map[string]*pongo2.Template),
	}, nil
}

func (e *engine) execute(name string, data pongo2.Context, w io.Writer) error {
	tmpl, err := e.getTemplate(name)
	if err != nil {
		return err
	}
	if err := tmpl.ExecuteWriter(data, w); err != nil {
		return fmt.Errorf("html: execute template %q: %w", name, err)
	}
	return nil
}

func (e *engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("html: load template %q: %w", path, err)
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}
