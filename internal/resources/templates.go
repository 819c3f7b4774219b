package resources

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"sync/atomic"
)

// Templates holds the parsed page templates for a directory. A failed
// reload keeps serving the last good set.
type Templates struct {
	dir     string
	current atomic.Pointer[template.Template]
}

// LoadTemplates parses every file in dir.
func LoadTemplates(dir string) (*Templates, error) {
	t := &Templates{dir: dir}
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

// Watch reloads the templates whenever the directory changes, until ctx
// is done.
func (t *Templates) Watch(ctx context.Context) error {
	return watchDir(ctx, t.dir, func() {
		if err := t.load(); err != nil {
			log.Printf("resources: %v\n", err)
		}
	})
}

func (t *Templates) Render(name string, data any) ([]byte, error) {
	tmpl := t.current.Load()
	if tmpl == nil {
		return nil, fmt.Errorf("no templates loaded from '%s'", t.dir)
	}
	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, name, data)
	return buf.Bytes(), err
}

func (t *Templates) load() error {
	tmpl, err := template.ParseGlob(filepath.Join(t.dir, "*.html"))
	if err != nil {
		return fmt.Errorf("failed to parse templates from '%s': %v", t.dir, err)
	}
	t.current.Store(tmpl)
	log.Printf("Loaded templates from %v\n", t.dir)
	return nil
}
