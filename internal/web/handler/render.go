package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/farklestats/internal/web/templates/layout"
	"github.com/mcoot/farklestats/internal/web/templates/pages"
)

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render(w, r, status, pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: http.StatusText(status)},
		Message:  message,
	}))
}

func renderInternalError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.Error("page render failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}
