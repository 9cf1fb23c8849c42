package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/csd4487/vedema/internal/config"
	"github.com/csd4487/vedema/internal/repository/mongodb"
	"github.com/csd4487/vedema/internal/repository/sheets"
	"github.com/csd4487/vedema/internal/scheduler"
	"github.com/csd4487/vedema/internal/server/handlers"
	"github.com/csd4487/vedema/internal/server/router"
	analyticssvc "github.com/csd4487/vedema/internal/service/analytics"
	reportingsvc "github.com/csd4487/vedema/internal/service/reporting"
	"github.com/csd4487/vedema/pkg/clients/records"
	"github.com/csd4487/vedema/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName,
		cfg.MongoDB.UsersCollection, cfg.MongoDB.ReportsCollection)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewSpreadsheet(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	}

	var source analyticssvc.SnapshotSource
	switch cfg.Records.Backend {
	case config.BackendSheets:
		source = sheets.NewLedgerSource(sheetsRepo, baseLogger.Named("repo.ledger"))
	case config.BackendRemote:
		source = records.NewClient(cfg.RecordsAPI)
	default:
		source = mongoRepo
	}
	baseLogger.Info("records backend selected", zap.String("backend", cfg.Records.Backend))

	analyticsSvc := analyticssvc.NewService(source, cfg.Analytics.DefaultSeason, baseLogger.Named("svc.analytics"))

	var exporter reportingsvc.ReportExporter
	if sheetsRepo != nil {
		exporter = sheets.NewSummaryExporter(sheetsRepo)
		baseLogger.Info("season digest export to sheets enabled")
	}
	digestSvc := reportingsvc.NewDigestService(mongoRepo, analyticsSvc, mongoRepo, exporter,
		cfg.Digest.Concurrency, baseLogger.Named("svc.digest"))

	analyticsHandler := handlers.NewAnalyticsHandler(analyticsSvc, baseLogger.Named("handlers.analytics"))
	engine := router.New(analyticsHandler, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Digest, digestSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
