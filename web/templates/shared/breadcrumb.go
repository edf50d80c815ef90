package shared

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Breadcrumb represents a navigation trail entry. An empty URL marks the
// current page.
type Breadcrumb struct {
	Title string
	URL   string
}

// Breadcrumbs renders the trail as an ordered list.
func Breadcrumbs(items []Breadcrumb) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(items) == 0 {
			return nil
		}
		if _, err := io.WriteString(w, `<nav aria-label="breadcrumb" class="text-sm text-gray-500 mb-6"><ol class="flex gap-2">`); err != nil {
			return err
		}
		for i, item := range items {
			if i > 0 {
				if _, err := io.WriteString(w, `<li aria-hidden="true">/</li>`); err != nil {
					return err
				}
			}
			var err error
			if item.URL == "" {
				_, err = io.WriteString(w, `<li aria-current="page">`+templ.EscapeString(item.Title)+`</li>`)
			} else {
				_, err = io.WriteString(w, `<li><a data-spa href="`+templ.EscapeString(item.URL)+`">`+templ.EscapeString(item.Title)+`</a></li>`)
			}
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ol></nav>`)
		return err
	})
}
