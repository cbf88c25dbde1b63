package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"ordermgmt/internal/dal/postgres"
	"ordermgmt/internal/dal/rabbitmq"
	orderrepo "ordermgmt/internal/dal/repositories/order/postgres"
	outboxrepo "ordermgmt/internal/dal/repositories/outbox/postgres"
	"ordermgmt/internal/jaeger"
	"ordermgmt/internal/service/services/analyticssvc"
	"ordermgmt/internal/service/services/ordersvc"
	httptransport "ordermgmt/internal/transport/http"
	analyticshandlers "ordermgmt/internal/transport/http/v1/analytics"
	ordershandlers "ordermgmt/internal/transport/http/v1/orders"
	outboxworker "ordermgmt/internal/worker/outbox"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	analyticsSvc   *analyticssvc.AnalyticsService
	transport      *httptransport.HTTPTransport
	worker         *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	tracerProvider *sdktrace.TracerProvider
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	tracerProvider := jaeger.MustNewTracerProvider()

	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	exchange := viper.GetString("rabbitmq.orders.exchange")
	if exchange == "" {
		exchange = "orders.events"
	}
	if err := rabbitClient.DeclareExchange(exchange); err != nil {
		panic("failed to declare orders exchange: " + err.Error())
	}

	orderRepository := orderrepo.NewRepository(postgresClient)
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderRepository),
		ordersvc.WithOutboxRepository(outboxRepository),
	)
	analyticsSvc := analyticssvc.MustNewAnalyticsService(
		analyticssvc.WithAnalyticsRepository(orderRepository),
	)

	worker := outboxworker.NewWorker(outboxRepository, rabbitClient)

	transport := httptransport.NewHTTPTransport(
		ordershandlers.NewHandler(orderSvc),
		analyticshandlers.NewHandler(analyticsSvc),
	)
	transport.RegisterRoutes()

	return &App{
		orderSvc:       orderSvc,
		analyticsSvc:   analyticsSvc,
		transport:      transport,
		worker:         worker,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		tracerProvider: tracerProvider,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	go a.worker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	workerCancel()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.tracerProvider.Shutdown(ctx); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
