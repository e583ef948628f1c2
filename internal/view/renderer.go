package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"ordercrm/internal/auth"
	apperrors "ordercrm/internal/errors"
	"ordercrm/internal/infrastructure/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// FlashSource pops the flash messages queued for the current visitor.
type FlashSource interface {
	Flashes(w http.ResponseWriter, r *http.Request) []auth.Flash
}

// Page is the data every template receives. Data holds the screen-specific
// values.
type Page struct {
	Title          string
	User           *auth.Principal
	Flashes        []auth.Flash
	CSRFField      template.HTML
	Errors         map[string][]string
	NonFieldErrors []string
	Values         url.Values
	Data           any
}

func (p Page) FieldErrors(field string) []string {
	return p.Errors[field]
}

func (p Page) HasErrors() bool {
	return len(p.Errors) > 0 || len(p.NonFieldErrors) > 0
}

// NewPage prepares a page for r with the principal and CSRF field filled in.
func NewPage(r *http.Request, title string, data any) Page {
	page := Page{
		Title:     title,
		CSRFField: csrf.TemplateField(r),
		Data:      data,
	}
	if p, ok := auth.PrincipalFrom(r.Context()); ok {
		page.User = &p
	}
	return page
}

// WithValidation copies the messages of ve into the page.
func (p Page) WithValidation(ve *apperrors.ValidationError) Page {
	p.Errors = make(map[string][]string)
	for field, msgs := range ve.FieldMessages() {
		if field == apperrors.NonFieldError {
			p.NonFieldErrors = append(p.NonFieldErrors, msgs...)
			continue
		}
		p.Errors[field] = msgs
	}
	return p
}

type Renderer struct {
	pages   map[string]*template.Template
	flashes FlashSource
	logger  *zap.Logger
}

func New(flashes FlashSource, logger *zap.Logger) (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := path.Base(file)
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, flashes: flashes, logger: logger}, nil
}

var funcs = template.FuncMap{
	"lower": strings.ToLower,
	"contains": func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	},
}

// HTML renders the named page. The output is buffered so that a template
// error never leaves a half-written response.
func (v *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tmpl, ok := v.pages[name]
	if !ok {
		logger.ForContext(r.Context(), v.logger).Error("template not found", zap.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if v.flashes != nil {
		page.Flashes = append(page.Flashes, v.flashes.Flashes(w, r)...)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		logger.ForContext(r.Context(), v.logger).Error("rendering template", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.ForContext(r.Context(), v.logger).Warn("writing response", zap.Error(err))
	}
}

type errorData struct {
	Status  int
	Message string
}

// Error renders the error page with the given status.
func (v *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	v.HTML(w, r, status, "error.html", NewPage(r, http.StatusText(status), errorData{Status: status, Message: message}))
}

// Fail maps a service error to an error page: not-found becomes 404,
// anything else is logged and answered with 500. An InternalError is logged
// under its own message with the cause attached.
func (v *Renderer) Fail(w http.ResponseWriter, r *http.Request, err error) {
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		v.Error(w, r, http.StatusNotFound, nfe.Message)
		return
	}

	log := logger.ForContext(r.Context(), v.logger)
	if ie, ok := apperrors.IsInternalError(err); ok {
		log.Error(ie.Message, zap.String("path", r.URL.Path), zap.Error(ie.Cause))
	} else {
		log.Error("unexpected error", zap.String("path", r.URL.Path), zap.Error(err))
	}
	v.Error(w, r, http.StatusInternalServerError, "an unexpected error occurred")
}
