package report

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Mock implementations
type mockBuilder struct {
	BuildFunc func(ctx context.Context) (*Report, error)
}

func (m *mockBuilder) Build(ctx context.Context) (*Report, error) {
	return m.BuildFunc(ctx)
}

type mockRenderer struct {
	RenderFunc func(ctx context.Context, report Report) ([]byte, error)
}

func (m *mockRenderer) Render(ctx context.Context, report Report) ([]byte, error) {
	return m.RenderFunc(ctx, report)
}

type mockErrorPages struct {
	failed error
}

func (m *mockErrorPages) Fail(w http.ResponseWriter, r *http.Request, err error) {
	m.failed = err
	w.WriteHeader(http.StatusInternalServerError)
}

func builtReport() *mockBuilder {
	return &mockBuilder{
		BuildFunc: func(ctx context.Context) (*Report, error) {
			return &Report{TotalOrders: 2, GeneratedAt: fixedNow}, nil
		},
	}
}

func staticPDF() *mockRenderer {
	return &mockRenderer{
		RenderFunc: func(ctx context.Context, report Report) ([]byte, error) {
			return []byte("%PDF-1.3 fake"), nil
		},
	}
}

func TestReportDisposition(t *testing.T) {
	tests := []struct {
		name        string
		handler     func(c *Controller) http.HandlerFunc
		disposition string
	}{
		{name: "view", handler: func(c *Controller) http.HandlerFunc { return c.ViewReport }, disposition: "inline; filename=Order_Report_2024-05-01.pdf"},
		{name: "print", handler: func(c *Controller) http.HandlerFunc { return c.PrintReport }, disposition: "attachment; filename=Order_Report_2024-05-01.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(builtReport(), staticPDF(), &mockErrorPages{}, zap.NewNop())

			rec := httptest.NewRecorder()
			tt.handler(c)(rec, httptest.NewRequest(http.MethodGet, "/view_report/", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.disposition, rec.Header().Get("Content-Disposition"))
			assert.Equal(t, "%PDF-1.3 fake", rec.Body.String())
		})
	}
}

func TestReport_RenderFailureIsLoggedAnd500(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	renderer := &mockRenderer{
		RenderFunc: func(ctx context.Context, report Report) ([]byte, error) {
			return nil, errors.New("font missing")
		},
	}
	pages := &mockErrorPages{}
	c := NewController(builtReport(), renderer, pages, zap.New(core))

	rec := httptest.NewRecorder()
	c.PrintReport(rec, httptest.NewRequest(http.MethodGet, "/print_report/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.ErrorContains(t, pages.failed, "font missing")
	assert.Equal(t, 1, logs.FilterMessage("rendering report").Len())
}

func TestReport_BuildFailure(t *testing.T) {
	builder := &mockBuilder{
		BuildFunc: func(ctx context.Context) (*Report, error) {
			return nil, errors.New("connection refused")
		},
	}
	renderer := &mockRenderer{
		RenderFunc: func(ctx context.Context, report Report) ([]byte, error) {
			t.Fatal("render must not run without a report")
			return nil, nil
		},
	}
	pages := &mockErrorPages{}
	c := NewController(builder, renderer, pages, zap.NewNop())

	rec := httptest.NewRecorder()
	c.ViewReport(rec, httptest.NewRequest(http.MethodGet, "/view_report/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.EqualError(t, pages.failed, "connection refused")
}
