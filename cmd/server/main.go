package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"farm-management/internal/auth"
	"farm-management/internal/config"
	"farm-management/internal/controller"
	"farm-management/internal/repository"
	"farm-management/internal/router"
	"farm-management/internal/service"
	"farm-management/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := repository.NewRepository(cfg.Database.DSN())
	if err != nil {
		baseLogger.Fatal("failed to init repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			baseLogger.Error("failed to close database connection", zap.Error(err))
		}
	}()

	seeder := repository.NewSeedRepository(repo)
	if err := seeder.SeedReferenceData(); err != nil {
		baseLogger.Fatal("failed to seed reference data", zap.Error(err))
	}
	if cfg.SeedDemo {
		hash, err := auth.HashPassword("demo-password")
		if err != nil {
			baseLogger.Fatal("failed to hash demo password", zap.Error(err))
		}
		if err := seeder.SeedDemoData(hash); err != nil {
			baseLogger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	authz := service.NewAuthz(repo)
	accounts := service.NewAccounts(repo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, baseLogger.Named("svc.accounts"))
	enterprises := service.NewEnterprises(repo, authz, baseLogger.Named("svc.enterprises"))
	farms := service.NewFarms(repo, authz, baseLogger.Named("svc.farms"))
	production := service.NewProduction(repo, authz, baseLogger.Named("svc.production"))
	finance := service.NewFinance(repo, authz, baseLogger.Named("svc.finance"))
	stock := service.NewStock(repo, authz, baseLogger.Named("svc.stock"))
	dashboard := service.NewDashboardService(repo, authz, baseLogger.Named("svc.dashboard"))
	reference := service.NewReference(repo)

	controllers := router.Controllers{
		Auth:       controller.NewAuthController(accounts, baseLogger.Named("ctrl.auth")),
		Tenancy:    controller.NewTenancyController(enterprises, farms, baseLogger.Named("ctrl.tenancy")),
		Production: controller.NewProductionController(production, baseLogger.Named("ctrl.production")),
		Finance:    controller.NewFinanceController(finance, baseLogger.Named("ctrl.finance")),
		Stock:      controller.NewStockController(stock, baseLogger.Named("ctrl.stock")),
		Dashboard:  controller.NewDashboardController(dashboard, baseLogger.Named("ctrl.dashboard")),
		Reference:  controller.NewReferenceController(reference, baseLogger.Named("ctrl.reference")),
	}
	engine := router.New(controllers, cfg.Auth.JWTSecret, baseLogger.Named("router"))

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
