package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	analyticshandlers "ordermgmt/internal/transport/http/v1/analytics"
	ordershandlers "ordermgmt/internal/transport/http/v1/orders"
	"ordermgmt/pkg/http/middleware/security"
	"ordermgmt/pkg/http/middleware/trace"
	"ordermgmt/pkg/logger"
)

const defaultMaxBodyBytes = 1 << 20 // 1 MiB

type HTTPTransport struct {
	server           *http.Server
	router           *chi.Mux
	ordersHandler    *ordershandlers.Handler
	analyticsHandler *analyticshandlers.Handler
}

func NewHTTPTransport(
	ordersHandler *ordershandlers.Handler,
	analyticsHandler *analyticshandlers.Handler,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:           server,
		router:           router,
		ordersHandler:    ordersHandler,
		analyticsHandler: analyticsHandler,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/health", healthCheck)

	h.router.Route("/api/v1", func(r chi.Router) {
		h.ordersHandler.RegisterRoutes(r)
		h.analyticsHandler.RegisterRoutes(r)
	})
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
		slog.Error("Error sending health check response", "error", err)
	}
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)
	router.Use(security.Headers)

	maxBodyBytes := viper.GetInt64("server.http.max_body_bytes")
	if maxBodyBytes == 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	router.Use(security.NewRequestValidator(maxBodyBytes))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
