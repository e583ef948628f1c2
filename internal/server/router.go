package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	accountctl "ordercrm/internal/account/controller"
	"ordercrm/internal/auth"
	customerctl "ordercrm/internal/customer/controller"
	"ordercrm/internal/domain"
	"ordercrm/internal/infrastructure/logger"
	orderctl "ordercrm/internal/order/controller"
	"ordercrm/internal/product"
	"ordercrm/internal/report"
)

const TraceIDHeader = "X-Trace-Id"

type Routes struct {
	Account  *accountctl.AccountController
	Customer *customerctl.CustomerController
	Order    *orderctl.OrderController
	Product  *product.Controller
	Report   *report.Controller
}

type Options struct {
	RequestTimeout time.Duration
	// CSRFKey enables CSRF protection when set.
	CSRFKey      []byte
	CookieSecure bool
}

// ErrorPages renders the HTML error page.
type ErrorPages interface {
	Error(w http.ResponseWriter, r *http.Request, status int, message string)
}

func NewRouter(routes Routes, sessions *auth.SessionManager, pages ErrorPages, opts Options, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	if len(opts.CSRFKey) > 0 {
		r.Use(csrfProtect(opts, pages))
	}
	r.Use(sessions.Authenticate)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		pages.Error(w, r, http.StatusNotFound, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		pages.Error(w, r, http.StatusMethodNotAllowed, "")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RedirectIfAuthenticated)
		r.Get("/login/", routes.Account.LoginPage)
		r.Post("/login/", routes.Account.Login)
		r.Get("/register/", routes.Account.RegisterPage)
		r.Post("/register/", routes.Account.Register)
	})

	r.Get("/logout/", routes.Account.Logout)
	r.Post("/logout/", routes.Account.Logout)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRoles(log, domain.RoleAdmin))

		r.Get("/", routes.Order.Dashboard)
		r.Get("/products/", routes.Product.HandleListProducts)
		r.Get("/customer/{id}/", routes.Customer.Customer)

		r.Get("/create_order/{id}/", routes.Order.CreateOrderPage)
		r.Post("/create_order/{id}/", routes.Order.CreateOrder)
		r.Get("/update_order/{id}/", routes.Order.UpdateOrderPage)
		r.Post("/update_order/{id}/", routes.Order.UpdateOrder)
		r.Get("/delete_order/{id}/", routes.Order.DeleteOrderPage)
		r.Post("/delete_order/{id}/", routes.Order.DeleteOrder)

		r.Get("/view_report/", routes.Report.ViewReport)
		r.Get("/print_report/", routes.Report.PrintReport)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRoles(log, domain.RoleCustomer))

		r.Get("/user/{id}/", routes.Customer.UserPage)
		r.Get("/account/{id}/", routes.Customer.AccountSettingsPage)
		r.Post("/account/{id}/", routes.Customer.AccountSettings)
		r.Get("/customer_create_order/{id}/", routes.Order.CustomerCreateOrderPage)
		r.Post("/customer_create_order/{id}/", routes.Order.CustomerCreateOrder)
	})

	return r
}

// requestLogger gives every request a traceId and logs it once the
// response is written.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := uuid.New().String()
			ctx := logger.WithTraceID(r.Context(), traceID)
			w.Header().Set(TraceIDHeader, traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("traceId", traceID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", middleware.GetReqID(r.Context())),
			}
			if status >= http.StatusInternalServerError {
				log.Error("request completed", fields...)
				return
			}
			log.Info("request completed", fields...)
		})
	}
}

func csrfProtect(opts Options, pages ErrorPages) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		opts.CSRFKey,
		csrf.Secure(opts.CookieSecure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pages.Error(w, r, http.StatusForbidden, "CSRF verification failed. Request aborted.")
		})),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !opts.CookieSecure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}
