package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"myeasyevent_front/web/templates/shared"
)

// ErrorPageProps describe an error response.
type ErrorPageProps struct {
	Title        string
	AssetPrefix  string
	Breadcrumbs  []shared.Breadcrumb
	ErrorTitle   string
	ErrorMessage string
	BackLink     string
	BackText     string
}

// ErrorPage renders the error inside the site layout.
func ErrorPage(props ErrorPageProps) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<main class="error-page px-6 py-24 text-center">`); err != nil {
			return err
		}
		if err := shared.Breadcrumbs(props.Breadcrumbs).Render(ctx, w); err != nil {
			return err
		}
		if err := errorBody(props).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main>`)
		return err
	})
	return layout(props.Title, props.AssetPrefix, body)
}

// PublicErrorPage renders a bare document with no layout, for asset
// requests.
func PublicErrorPage(props ErrorPageProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="fr"><head><meta charset="utf-8"/><title>`+
			templ.EscapeString(props.Title)+`</title></head><body>`); err != nil {
			return err
		}
		if err := errorBody(props).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func errorBody(props ErrorPageProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := `<h1 class="text-4xl font-bold mb-4">` + templ.EscapeString(props.ErrorTitle) + `</h1>` +
			`<p class="text-gray-600 mb-8">` + templ.EscapeString(props.ErrorMessage) + `</p>`
		back, text := props.BackLink, props.BackText
		if back == "" {
			back = "/"
		}
		if text == "" {
			text = "Retour à l'accueil"
		}
		out += `<a data-spa href="` + templ.EscapeString(back) + `">` + templ.EscapeString(text) + `</a>`
		_, err := io.WriteString(w, out)
		return err
	})
}
