package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// IndexProps configure the application shell.
type IndexProps struct {
	Title string
	// AssetPrefix is the mount prefix the page was requested under, or
	// empty at the site root.
	AssetPrefix string
}

// Index is the single page every client-side route is served with.
func Index(props IndexProps) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<main><div class="loading" style="text-align:center; padding:2rem;">Chargement...</div></main>`)
		return err
	})
	return layout(props.Title, props.AssetPrefix, body)
}
