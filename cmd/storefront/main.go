package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/atulkamble/ecommerce-devops-project/internal/api"
	"github.com/atulkamble/ecommerce-devops-project/internal/cart"
	"github.com/atulkamble/ecommerce-devops-project/internal/catalog"
	"github.com/atulkamble/ecommerce-devops-project/internal/checkout"
	"github.com/atulkamble/ecommerce-devops-project/internal/commerce"
	"github.com/atulkamble/ecommerce-devops-project/internal/session"
	"github.com/atulkamble/ecommerce-devops-project/internal/storage"
)

type Config struct {
	HTTPPort        string
	BackendURL      string
	StorePath       string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		BackendURL:      getEnv("BACKEND_URL", "http://localhost:5000"),
		StorePath:       getEnv("STORE_PATH", "storefront.db"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.Level = logrus.InfoLevel
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout

	cfg := loadConfig()

	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{}))

	kv, err := storage.OpenBolt(cfg.StorePath, log)
	if err != nil {
		log.Fatalf("failed to open local store %s: %v", cfg.StorePath, err)
	}
	defer kv.Close()

	client := commerce.NewClient(cfg.BackendURL, log)

	sessions := session.NewStore(kv, client, log)
	sessions.Initialize()

	cartStore := cart.NewStore(kv, log)
	cartStore.Initialize()

	productCatalog := catalog.New(client, log)
	orchestrator := checkout.NewOrchestrator(sessions, cartStore, client, log)

	router := api.NewRouter(api.Deps{
		Sessions:     sessions,
		Cart:         cartStore,
		Catalog:      productCatalog,
		Orchestrator: orchestrator,
		History:      client,
		Timeout:      cfg.RequestTimeout,
		Log:          log,
	})

	var handler http.Handler = router
	handler = otelhttp.NewHandler(handler, "storefront")

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("storefront starting on :%s (backend %s)", cfg.HTTPPort, cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
}
