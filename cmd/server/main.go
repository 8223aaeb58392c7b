package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nmorales/patrimonio-backend/internal/adapter/httpapi"
	"github.com/nmorales/patrimonio-backend/internal/adapter/repository/postgres"
	"github.com/nmorales/patrimonio-backend/internal/config"
	"github.com/nmorales/patrimonio-backend/internal/logger"
	"github.com/nmorales/patrimonio-backend/internal/usecase/amortization"
	"github.com/nmorales/patrimonio-backend/internal/usecase/asset"
	"github.com/nmorales/patrimonio-backend/internal/usecase/investment"
	"github.com/nmorales/patrimonio-backend/internal/usecase/movement"
	"github.com/nmorales/patrimonio-backend/internal/usecase/months"
	"github.com/nmorales/patrimonio-backend/internal/usecase/networth"
	"github.com/nmorales/patrimonio-backend/internal/usecase/projection"
	"github.com/nmorales/patrimonio-backend/internal/usecase/rates"
	"github.com/nmorales/patrimonio-backend/internal/usecase/seeder"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	db, err := postgres.NewDB(cfg.DBConnStr)
	if err != nil {
		logger.L.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Repositories
	assetRepo := postgres.NewAssetRepository(db)
	liabilityRepo := postgres.NewLiabilityRepository(db)
	investmentRepo := postgres.NewInvestmentRepository(db)
	movementRepo := postgres.NewMovementRepository(db)
	conceptRepo := postgres.NewConceptRepository(db)
	monthRepo := postgres.NewMonthRepository(db)
	rateRepo := postgres.NewExchangeRateRepository(db)
	tramoRepo := postgres.NewTramoRepository(db)

	// Services
	assetService := asset.NewAssetService(assetRepo, liabilityRepo)
	investmentService := investment.NewInvestmentService(investmentRepo)
	monthService := months.NewMonthService(monthRepo)
	rateService := rates.NewRateService(rateRepo, cfg.DefaultExchangeRate)
	amortizationService := amortization.NewAmortizationService(liabilityRepo)
	movementService := movement.NewMovementService(movementRepo, conceptRepo, monthService, rateService, amortizationService)
	netWorthService := networth.NewNetWorthService(assetService, investmentRepo)
	projectionService := projection.NewProjectionService(tramoRepo)

	ctx := context.Background()
	if err := seeder.NewSystemSeeder(conceptRepo).Seed(ctx); err != nil {
		logger.L.Error("failed to seed system concepts", "error", err)
		os.Exit(1)
	}
	logger.L.Info("system concepts seeded")

	router := httpapi.NewRouter(&httpapi.Server{
		Assets:      assetService,
		Investments: investmentService,
		Movements:   movementService,
		Months:      monthService,
		Rates:       rateService,
		NetWorth:    netWorthService,
		Projections: projectionService,
	}, cfg.CORSAllowedOrigin)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.L.Info("HTTP server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.L.Info("server stopped")
}
