package controller

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"ordercrm/internal/auth"
	"ordercrm/internal/domain"
	"ordercrm/internal/dto"
	apperrors "ordercrm/internal/errors"
	"ordercrm/internal/infrastructure/logger"
	"ordercrm/internal/view"
)

type AccountService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (auth.Principal, error)
}

type SessionStore interface {
	Login(w http.ResponseWriter, r *http.Request, p auth.Principal) error
	Logout(w http.ResponseWriter, r *http.Request) error
	AddFlash(w http.ResponseWriter, r *http.Request, f auth.Flash) error
}

type Renderer interface {
	HTML(w http.ResponseWriter, r *http.Request, status int, name string, page view.Page)
	Fail(w http.ResponseWriter, r *http.Request, err error)
}

type AccountController struct {
	service  AccountService
	sessions SessionStore
	render   Renderer
	logger   *zap.Logger
}

func NewAccountController(service AccountService, sessions SessionStore, render Renderer, logger *zap.Logger) *AccountController {
	return &AccountController{
		service:  service,
		sessions: sessions,
		render:   render,
		logger:   logger,
	}
}

func (c *AccountController) LoginPage(w http.ResponseWriter, r *http.Request) {
	c.render.HTML(w, r, http.StatusOK, "login.html", view.NewPage(r, "Login", nil))
}

func (c *AccountController) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.ForContext(r.Context(), c.logger)

	if err := r.ParseForm(); err != nil {
		log.Warn("invalid login form", zap.Error(err))
		c.render.Fail(w, r, err)
		return
	}
	req := dto.LoginRequestFromForm(r.PostForm)

	principal, err := c.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			c.render.Fail(w, r, err)
			return
		}
		log.Info("login failed", zap.String("username", req.Username))
		page := view.NewPage(r, "Login", nil)
		page.Flashes = append(page.Flashes, auth.Flash{Type: auth.FlashInfo, Message: auth.MsgInvalidCredentials})
		page.Values = r.PostForm
		c.render.HTML(w, r, http.StatusOK, "login.html", page)
		return
	}

	if err := c.sessions.Login(w, r, principal); err != nil {
		c.render.Fail(w, r, err)
		return
	}

	log.Info("user logged in", zap.Int("userId", principal.UserID), zap.String("role", string(principal.Role)))
	http.Redirect(w, r, auth.HomePath(principal), http.StatusSeeOther)
}

func (c *AccountController) RegisterPage(w http.ResponseWriter, r *http.Request) {
	c.render.HTML(w, r, http.StatusOK, "register.html", view.NewPage(r, "Register", nil))
}

func (c *AccountController) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		c.render.Fail(w, r, err)
		return
	}
	req := dto.RegisterRequestFromForm(r.PostForm)

	user, err := c.service.Register(r.Context(), req)
	if err != nil {
		if ve, ok := apperrors.IsValidationError(err); ok {
			page := view.NewPage(r, "Register", nil).WithValidation(ve)
			page.Values = r.PostForm
			c.render.HTML(w, r, http.StatusOK, "register.html", page)
			return
		}
		c.render.Fail(w, r, err)
		return
	}

	flash := auth.Flash{Type: auth.FlashSuccess, Message: "Account created! Welcome, " + user.Username}
	if err := c.sessions.AddFlash(w, r, flash); err != nil {
		logger.ForContext(r.Context(), c.logger).Warn("saving flash", zap.Error(err))
	}
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}

func (c *AccountController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.sessions.Logout(w, r); err != nil {
		c.render.Fail(w, r, err)
		return
	}
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}
