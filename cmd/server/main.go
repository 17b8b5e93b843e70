package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/numanubhani/finance2/internal/api"
	"github.com/numanubhani/finance2/internal/config"
	"github.com/numanubhani/finance2/internal/db"
	"github.com/numanubhani/finance2/internal/events"
	"github.com/numanubhani/finance2/internal/ledger"
	"github.com/numanubhani/finance2/internal/repository"
	"github.com/numanubhani/finance2/internal/repository/memory"
	"github.com/numanubhani/finance2/internal/service"
	"github.com/numanubhani/finance2/internal/utils"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using environment")
	}
	cfg := config.New()

	var (
		store ledger.Store
		users service.UserStore
	)
	switch cfg.Storage {
	case "memory":
		// Dev mode: everything lives in process memory.
		mem := memory.NewStore()
		store = mem
		users = mem
		log.Warn("using in-memory storage, data will not survive a restart")
	default:
		conn, err := db.ConnectPostgres(cfg, log)
		if err != nil {
			log.Fatalw("failed to connect to postgres", "error", err)
		}
		defer conn.Close()
		store = repository.NewStore(conn, cfg.LockTimeout)
		users = repository.NewUserRepository(conn)
	}

	var publisher ledger.EventPublisher
	if cfg.AMQPURL != "" {
		pub, err := events.Connect(cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			log.Fatalw("failed to connect to rabbitmq", "error", err)
		}
		defer pub.Close()
		publisher = pub
		log.Infow("transaction events enabled", "exchange", cfg.AMQPExchange)
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	ledgerService := ledger.NewService(store, publisher)
	authService := service.NewAuthService(users, tokens)

	authHandler := api.NewAuthHandler(authService)
	bankHandler := api.NewBankHandler(ledgerService)
	txHandler := api.NewTransactionHandler(ledgerService)

	mux := api.SetupRoutes(authHandler, bankHandler, txHandler, tokens)
	server := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	log.Infow("server starting", "address", cfg.ServerAddress, "storage", cfg.Storage)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}
