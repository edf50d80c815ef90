package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// layout writes the document around body. The header, footer and main
// elements start empty and are filled by the client.
func layout(title, assetPrefix string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html lang="fr"><head><meta charset="utf-8"/>` +
			`<meta name="viewport" content="width=device-width, initial-scale=1"/>` +
			`<title>` + templ.EscapeString(title) + `</title>` +
			`<link rel="stylesheet" href="` + templ.EscapeString(assetPrefix) + `/static/css/app.css"/>` +
			`</head><body><header></header>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<footer></footer><div id="toasts" class="toast-container"></div></body></html>`)
		return err
	})
}
