package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shop-service/config"
	"shop-service/internal/cleanup"
	"shop-service/internal/repository"
	"shop-service/pkg/database"
	"shop-service/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()
	cfg := config.LoadCleanup(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)
	cleanupSvc := cleanup.NewCleanupService(repos.Orders, repos.DiscountCodes, cfg.Cleanup.CartTTL, log)

	mode := "daemon"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	ctx := context.Background()

	switch mode {
	case "carts":
		log.Info("running stale carts cleanup")
		if err := cleanupSvc.CleanupStaleCarts(ctx); err != nil {
			log.Fatal("failed to cleanup stale carts", zap.Error(err))
		}
	case "codes":
		log.Info("running expired discount codes cleanup")
		if err := cleanupSvc.DeactivateExpiredCodes(ctx); err != nil {
			log.Fatal("failed to deactivate expired discount codes", zap.Error(err))
		}
	case "all":
		if err := cleanupSvc.RunFullCleanup(ctx); err != nil {
			log.Fatal("failed to run full cleanup", zap.Error(err))
		}
	case "daemon":
		ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		sched := cleanup.NewScheduler(cleanupSvc, cfg.Cleanup.CartInterval, cfg.Cleanup.DiscountInterval, log)
		sched.Start(ctx)
		<-ctx.Done()
		sched.Stop()
		log.Info("scheduler stopped")
		return
	default:
		fmt.Println("Usage: cleanup [daemon|carts|codes|all]")
		fmt.Println("  daemon - run scheduler until SIGINT/SIGTERM (default)")
		fmt.Println("  carts  - soft-delete stale empty carts once")
		fmt.Println("  codes  - deactivate expired discount codes once")
		fmt.Println("  all    - run full cleanup once")
		os.Exit(1)
	}

	log.Info("cleanup completed successfully")
}
