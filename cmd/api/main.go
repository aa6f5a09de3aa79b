package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"faultline/internal/config"
	"faultline/internal/database"
	"faultline/internal/database/migration"
	handlers "faultline/internal/http/handler"
	"faultline/internal/http/middleware"
	"faultline/internal/otel"
	"faultline/internal/repository/postgres"
	"faultline/internal/service"
	"faultline/internal/storage"
)

func main() {
	ctx := context.Background()
	loc := time.UTC

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Tracing first so DB and HTTP instrumentation pick up the provider
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	// PostgreSQL connection (pooled via database/sql, traced via otelsql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// S3-compatible object storage for archived notice payloads
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Repositories and services
	projectRepo := postgres.NewProjectPostgres(db)
	problemRepo := postgres.NewProblemPostgres(db)
	noticeRepo := postgres.NewNoticePostgres(db)
	deployRepo := postgres.NewDeployPostgres(db)

	svc := handlers.Services{
		Ingest:  service.NewIngestService(objStore, problemRepo, noticeRepo, cfg.BaseURL),
		Problem: service.NewProblemService(objStore, problemRepo, noticeRepo),
		Project: service.NewProjectService(projectRepo),
		Deploy:  service.NewDeployService(deployRepo, problemRepo),
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.Ingest.MaxBodyBytes,
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Global middleware: request ID, structured logs, traces, metrics
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, svc, cfg.Ingest)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
