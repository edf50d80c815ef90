// Package fragment loads the HTML component files of the site and extracts
// named <template> fragments from them.
package fragment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"

	"golang.org/x/net/html"

	"myeasyevent_front/internal/dom"
)

var (
	// ErrStatus is returned when the server answers with a non-2xx status.
	ErrStatus = errors.New("fragment: unexpected status")
	// ErrNotFound is returned by Find when none of the ids is present.
	ErrNotFound = errors.New("fragment: template not found")
)

// Source fetches the markup of the component file named name
// (components/{name}.html).
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Getter performs a GET relative to the current page. browser.Window
// satisfies it.
type Getter interface {
	Get(ctx context.Context, ref string) (*http.Response, error)
}

// HTTPSource loads components over HTTP below a mount prefix.
type HTTPSource struct {
	getter Getter
	prefix string
}

// NewHTTPSource returns a source reading {prefix}/components/{name}.html.
func NewHTTPSource(getter Getter, prefix string) *HTTPSource {
	return &HTTPSource{getter: getter, prefix: prefix}
}

// Path returns the request path used for name.
func (s *HTTPSource) Path(name string) string {
	return s.prefix + "/components/" + name + ".html"
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.getter.Get(ctx, s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("fetch component %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch component %q: %w %d", name, ErrStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read component %q: %w", name, err)
	}
	return body, nil
}

// Find parses markup and returns the content of the first element whose id
// matches one of ids, tried in order, together with the id that matched.
func Find(markup []byte, ids ...string) (*dom.Fragment, string, error) {
	root, err := html.Parse(bytes.NewReader(markup))
	if err != nil {
		return nil, "", fmt.Errorf("parse component: %w", err)
	}
	for _, id := range ids {
		if n := dom.FindByID(root, id); n != nil {
			return dom.ContentOf(n), id, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %v", ErrNotFound, ids)
}

// Load fetches name from src and extracts the template of the same name.
func Load(ctx context.Context, src Source, name string) (*dom.Fragment, error) {
	markup, err := src.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	f, _, err := Find(markup, name)
	return f, err
}

// FSSource reads components from a file tree laid out like the static
// directory (components/{name}.html).
type FSSource struct {
	fsys fs.FS
}

// NewFSSource returns a source reading from fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Fetch implements Source.
func (s *FSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := fs.ReadFile(s.fsys, path.Join("components", name+".html"))
	if err != nil {
		return nil, fmt.Errorf("read component %q: %w", name, err)
	}
	return body, nil
}
