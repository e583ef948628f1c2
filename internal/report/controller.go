package report

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"ordercrm/internal/infrastructure/logger"
)

type Builder interface {
	Build(ctx context.Context) (*Report, error)
}

// ErrorPages answers a request that failed with the HTML error page.
type ErrorPages interface {
	Fail(w http.ResponseWriter, r *http.Request, err error)
}

type Controller struct {
	builder  Builder
	renderer Renderer
	pages    ErrorPages
	logger   *zap.Logger
}

func NewController(builder Builder, renderer Renderer, pages ErrorPages, logger *zap.Logger) *Controller {
	return &Controller{
		builder:  builder,
		renderer: renderer,
		pages:    pages,
		logger:   logger,
	}
}

// ViewReport shows the report in the browser.
func (c *Controller) ViewReport(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, "inline")
}

// PrintReport downloads the report.
func (c *Controller) PrintReport(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, "attachment")
}

func (c *Controller) serve(w http.ResponseWriter, r *http.Request, disposition string) {
	log := logger.ForContext(r.Context(), c.logger)

	report, err := c.builder.Build(r.Context())
	if err != nil {
		c.pages.Fail(w, r, err)
		return
	}

	body, err := c.renderer.Render(r.Context(), *report)
	if err != nil {
		log.Error("rendering report", zap.Int("orders", report.TotalOrders), zap.Error(err))
		c.pages.Fail(w, r, fmt.Errorf("rendering report: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%s", disposition, report.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Warn("writing report", zap.Error(err))
	}
}
