package product

import (
	"net/http"

	"go.uber.org/zap"

	"ordercrm/internal/domain"
	"ordercrm/internal/view"
)

type Renderer interface {
	HTML(w http.ResponseWriter, r *http.Request, status int, name string, page view.Page)
	Fail(w http.ResponseWriter, r *http.Request, err error)
}

type Controller struct {
	service Service
	render  Renderer
	logger  *zap.Logger
}

func NewController(service Service, render Renderer, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		render:  render,
		logger:  logger,
	}
}

type listPageData struct {
	Products []domain.Product
}

func (c *Controller) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.List(r.Context())
	if err != nil {
		c.render.Fail(w, r, err)
		return
	}

	c.render.HTML(w, r, http.StatusOK, "products.html", view.NewPage(r, "Products", listPageData{Products: products}))
}
