package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crudlandia/internal/platform/config"
	"crudlandia/internal/platform/httpserver"
	"crudlandia/internal/platform/logger"
	"crudlandia/internal/platform/postgres"
	"crudlandia/internal/registry/handler"
	registrymetrics "crudlandia/internal/registry/metrics"
	"crudlandia/internal/registry/service"
	examplestore "crudlandia/internal/registry/store/example"
	productstore "crudlandia/internal/registry/store/product"
	referencestore "crudlandia/internal/registry/store/reference"
	"crudlandia/pkg/requestcontext"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	metrics := registrymetrics.New()

	var (
		examples   service.ExampleStore
		references service.ReferenceStore
		products   service.ProductStore
		txOption   service.Option
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		examples = examplestore.NewPostgres(db)
		references = referencestore.NewPostgres(db)
		products = productstore.NewPostgres(db)
		txOption = service.WithTx(newRegistryPostgresTx(db, cfg.TxTimeout))
		log.Info("using postgres stores")
	} else {
		examples = examplestore.NewInMemory()
		references = referencestore.NewInMemory()
		products = productstore.NewInMemory()
		log.Info("using in-memory stores")
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics),
	}
	if txOption != nil {
		opts = append(opts, txOption)
	}

	exampleService := service.NewExampleService(examples, references, opts...)
	productService := service.NewProductService(products, opts...)
	referenceService := service.NewReferenceService(references, opts...)

	h := handler.New(exampleService, productService, referenceService, log)

	router := chi.NewRouter()
	router.Use(requestIDMiddleware)
	h.Register(router)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting crudlandia", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// requestIDMiddleware assigns every request an id carried through the context
// and echoed in audit logs.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), requestID)))
	})
}
