package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"cafeteria/internal/auth"
	"cafeteria/internal/cart"
	"cafeteria/internal/catalog"
	ordercontroller "cafeteria/internal/order/controller"
	"cafeteria/internal/payment"
	staffcontroller "cafeteria/internal/staff/controller"
)

const StreamPath = "/api/orders/stream"

type Handlers struct {
	Catalog  *catalog.Controller
	Cart     *cart.Controller
	Orders   *ordercontroller.OrderController
	Staff    *staffcontroller.StaffController
	Payments *payment.Controller
}

type Security struct {
	Tokens   *auth.TokenService
	Enforcer *auth.Enforcer
}

func NewRouter(h Handlers, sec Security, serviceName string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	requireStaff := func(resource, action string) func(http.Handler) http.Handler {
		return auth.RequireStaff(sec.Tokens, sec.Enforcer, resource, action, logger)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.CustomerMiddleware(sec.Tokens, logger))

		r.Get("/catalog", h.Catalog.HandleGetCatalog)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.HandleGetCart)
			r.Delete("/", h.Cart.HandleClear)
			r.Post("/items", h.Cart.HandleAddItem)
			r.Patch("/items/{productId}", h.Cart.HandleUpdateQty)
			r.Delete("/items/{productId}", h.Cart.HandleRemoveItem)
		})

		r.Get("/pickup-slots", h.Orders.HandlePickupSlots)
		r.Post("/orders", h.Orders.HandleCheckout)
		r.Get("/orders", h.Orders.HandleListOrders)
		r.Get("/orders/stream", h.Orders.HandleStream)

		r.Post("/payments/create", h.Payments.HandleCreate)

		r.Route("/pos", func(r chi.Router) {
			r.Post("/auth/login", h.Staff.HandleLogin)
			r.Get("/health", h.Staff.HandleHealth)

			r.With(requireStaff(auth.ResourceOrders, auth.ActionAdvance)).
				Patch("/orders/{orderId}/status", h.Orders.HandleAdvanceStatus)

			r.With(requireStaff(auth.ResourceStaff, auth.ActionRead)).Get("/users", h.Staff.HandleList)
			r.With(requireStaff(auth.ResourceStaff, auth.ActionRead)).Get("/users/lookup", h.Staff.HandleLookup)
			r.With(requireStaff(auth.ResourceStaff, auth.ActionWrite)).Post("/users", h.Staff.HandleRegister)
		})
	})

	// Order streams are not traced: their span would last as long as the
	// connection.
	traced := otelhttp.NewHandler(r, serviceName)
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == StreamPath {
			r.ServeHTTP(w, req)
			return
		}
		traced.ServeHTTP(w, req)
	})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("request handled",
				zap.String("requestId", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
