package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-service/config"
	_ "shop-service/docs"
	"shop-service/internal/cache"
	"shop-service/internal/hashing"
	"shop-service/internal/producer"
	"shop-service/internal/repository"
	"shop-service/internal/router"
	"shop-service/internal/service"
	"shop-service/internal/token"
	"shop-service/pkg/database"
	"shop-service/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const bcryptCost = 12

//go:generate swag init -g cmd/service/main.go -o docs -d ../../

// @Title Shop API
// @Version 1.0
// @Description API интернет-магазина: каталог, корзина, оформление заказов
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	if err != nil {
		log.Fatal("Не удалось подключиться к Redis", zap.Error(err))
	}
	defer redisClient.Close()

	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatal("no kafka brokers configured (KAFKA_BROKERS)")
	}
	emails := producer.NewEmailProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEmail)
	defer emails.Close()
	events := producer.NewOrderEventProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders)
	defer events.Close()

	repos := repository.New(db)
	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)

	r := router.Router(router.Deps{
		Cart:        service.NewCartService(repos, events, emails, log),
		Catalog:     service.NewCatalogService(repos, log),
		Auth:        service.NewAuthService(repos.Users, repos.RefreshTokens, hashing.NewBcrypt(bcryptCost), tokens, redisClient, emails, cfg.JWT.AccessExp, cfg.JWT.RefreshExp, log),
		Profile:     service.NewProfileService(repos, log),
		Tokens:      tokens,
		CORSOrigins: cfg.App.CORSOrigins,
	}, log)

	srv := &http.Server{
		Addr:              cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Ошибка при остановке HTTP-сервера", zap.Error(err))
	}
	log.Info("HTTP server stopped")
}
