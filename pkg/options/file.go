package options

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileSupplier reads an option list from a YAML or JSON file. When the file
// does not exist yet it watches the parent directory and resolves once the
// file is written, so another process can publish options after startup.
type FileSupplier struct {
	Path string
}

// File returns a FileSupplier for path.
func File(path string) *FileSupplier {
	return &FileSupplier{Path: path}
}

// Load implements Supplier.
func (f *FileSupplier) Load(ctx context.Context, _ string) ([]Option, error) {
	if f == nil || f.Path == "" {
		return nil, errors.New("options: file path is required")
	}

	opts, err := f.read()
	if err == nil {
		return opts, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return f.await(ctx)
}

func (f *FileSupplier) read() ([]Option, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	opts, err := decodeAuto(data)
	if err != nil {
		return nil, fmt.Errorf("options: %s: %w", f.Path, err)
	}
	return opts, nil
}

func (f *FileSupplier) await(ctx context.Context) ([]Option, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("options: watch %s: %w", f.Path, err)
	}
	defer func() {
		_ = w.Close()
	}()

	dir := filepath.Dir(f.Path)
	if err := w.Add(dir); err != nil {
		return nil, fmt.Errorf("options: watch %s: %w", dir, err)
	}

	// The file may have appeared between the first read and the watch.
	if opts, err := f.read(); err == nil {
		return opts, nil
	}

	target := filepath.Clean(f.Path)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case err, ok := <-w.Errors:
			if !ok {
				return nil, errors.New("options: watcher closed")
			}
			return nil, fmt.Errorf("options: watch %s: %w", f.Path, err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil, errors.New("options: watcher closed")
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			opts, err := f.read()
			if err != nil {
				// Partially written files fail to decode; wait for the next write.
				continue
			}
			return opts, nil
		}
	}
}
