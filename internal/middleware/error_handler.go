package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"myeasyevent_front/web/templates/pages"
	"myeasyevent_front/web/templates/shared"
)

// ErrorHandler returns an echo error handler rendering the error page.
// Requests for assets get the bare page so a client fetching a fragment
// never receives the site layout.
func ErrorHandler(prefix string) echo.HTTPErrorHandler {
	prefix = strings.TrimRight(prefix, "/")
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		errorTitle := "Erreur interne"
		errorMessage := ""

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if msg, ok := he.Message.(string); ok && msg != "" {
				errorMessage = msg
			}
		}

		switch code {
		case http.StatusNotFound:
			errorTitle = "Page introuvable"
			if errorMessage == "" {
				errorMessage = "La page demandée n'existe pas."
			}
		case http.StatusMethodNotAllowed:
			errorTitle = "Méthode non autorisée"
			if errorMessage == "" {
				errorMessage = "Cette requête n'est pas acceptée."
			}
		case http.StatusBadRequest:
			errorTitle = "Requête invalide"
			if errorMessage == "" {
				errorMessage = "La requête n'a pas pu être traitée."
			}
		default:
			if errorMessage == "" || code >= http.StatusInternalServerError {
				errorMessage = "Une erreur est survenue. Veuillez réessayer plus tard."
			}
		}

		if code >= http.StatusInternalServerError {
			c.Logger().Error(err)
		}

		path := c.Request().URL.Path
		assetPrefix := ""
		if prefix != "" && (path == prefix || strings.HasPrefix(path, prefix+"/")) {
			assetPrefix = prefix
		}

		props := pages.ErrorPageProps{
			Title:       errorTitle,
			AssetPrefix: assetPrefix,
			Breadcrumbs: []shared.Breadcrumb{
				{Title: "Accueil", URL: "/"},
				{Title: "Erreur", URL: ""},
			},
			ErrorTitle:   errorTitle,
			ErrorMessage: errorMessage,
		}

		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(code); err != nil {
				c.Logger().Error(err)
			}
			return
		}

		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().Status = code

		var renderErr error
		if isAsset(strings.TrimPrefix(path, assetPrefix)) {
			renderErr = pages.PublicErrorPage(props).Render(c.Request().Context(), c.Response())
		} else {
			renderErr = pages.ErrorPage(props).Render(c.Request().Context(), c.Response())
		}

		if renderErr != nil {
			c.Logger().Error(fmt.Errorf("failed to render error page: %w", renderErr))
			_ = c.String(code, errorMessage)
		}
	}
}

func isAsset(path string) bool {
	return strings.HasPrefix(path, "/components/") || strings.HasPrefix(path, "/static/") || path == "/healthz"
}
