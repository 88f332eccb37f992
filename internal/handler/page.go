// Package handler contains the HTTP handlers of the registry.
//
// HANDLER RESPONSIBILITIES:
//  1. Parse the incoming request (form fields, query params, cookies)
//  2. Call a service
//  3. Write the response (status code, headers, body)
//
// Business rules live in internal/service. Handlers only translate.
package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/Riddhikharpe/house-helpers/internal/model"
	"github.com/Riddhikharpe/house-helpers/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageHandler renders the single page holding the three forms.
// Templates are parsed once at startup.
type PageHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewPageHandler parses the embedded templates. base.html defines the page
// shell with a {{template "content" .}} slot which index.html fills.
func NewPageHandler(logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &PageHandler{templates: tmpl, logger: logger}, nil
}

// HandleIndex serves the page.
//
// HTTP: GET /
func (h *PageHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title":   "House Help Registration & Search",
		"Genders": model.Genders,
		"MinAge":  service.MinAge,
		"MaxAge":  service.MaxAge,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
