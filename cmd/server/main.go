package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"agreements/internal/db"
	"agreements/internal/domain/agreement"
	"agreements/internal/domain/employee"
	"agreements/internal/domain/templates"
	"agreements/internal/platform/config"
	"agreements/internal/platform/crypto"
	"agreements/internal/platform/email"
	"agreements/internal/platform/esign"
	"agreements/internal/platform/gdocs"
	"agreements/internal/platform/jobs"
	"agreements/internal/platform/metrics"
	"agreements/internal/platform/storage"
	"agreements/internal/transport/http/api"
	agreementshandler "agreements/internal/transport/http/handlers/agreements"
	employeeshandler "agreements/internal/transport/http/handlers/employees"
	templateshandler "agreements/internal/transport/http/handlers/templates"
	"agreements/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	var provider agreement.DocumentProvider
	var docs templateshandler.DocumentReader
	if cfg.ServiceAccountJSON != "" {
		client, err := gdocs.New(ctx, []byte(cfg.ServiceAccountJSON), nil)
		if err != nil {
			log.Fatalf("document provider setup failed: %v", err)
		}
		provider = client
		docs = client
	} else {
		log.Println("GOOGLE_SERVICE_ACCOUNT_JSON not set, agreements will use the fallback renderer")
	}

	cipher, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("data encryption setup failed: %v", err)
	}

	blobs := storage.New(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket, nil)
	collector := metrics.New()

	agreementStore := agreement.NewStore(pool, cipher)
	service := agreement.NewService(agreementStore, provider, blobs, cfg.DefaultTemplateID).
		WithMetrics(collector)

	if cfg.ESignURL != "" {
		service = service.WithSignatureProvider(esign.New(cfg.ESignURL, cfg.ESignKey, nil))
	}
	if cfg.EmailEnabled {
		service = service.WithMailer(email.New(cfg), cfg.EmailFrom)
	}

	employeeStore := employee.NewStore(pool, cipher)
	templateStore := templates.NewStore(pool)

	background := jobs.New(pool, cfg)
	background.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.JWTSecret))

		employeeshandler.NewHandler(employeeStore).RegisterRoutes(r)
		templateshandler.NewHandler(templateStore, docs).RegisterRoutes(r)
		agreementshandler.NewHandler(service).RegisterRoutes(r)

		if cfg.MetricsEnabled {
			r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(req.Context()))
			})
		}
	})

	log.Printf("agreements server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
