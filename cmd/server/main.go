package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invest/internal/cache"
	"invest/internal/config"
	"invest/internal/db"
	"invest/internal/handlers"
	"invest/internal/logger"
	"invest/internal/services"
	"invest/internal/store"
	"invest/internal/websocket"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.AppEnv)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer database.Close()

	redisClient := cache.Connect(cfg.RedisAddr, log)
	statsCache := cache.New(redisClient, cfg.StatsCacheTTL)

	users := store.NewUserStore(database)
	wallets := store.NewWalletStore(database)
	ledger := store.NewLedgerStore(database)
	transactions := store.NewTransactionStore(database)
	plans := store.NewPlanStore(database)
	investments := store.NewInvestmentStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	walletSvc := services.NewWalletService(txRunner, wallets, ledger, hub)
	txSvc := services.NewTransactionService(txRunner, transactions, walletSvc)
	investSvc := services.NewInvestmentService(txRunner, plans, investments, walletSvc)

	handler := handlers.New(cfg, log, database, txRunner, users, ledger, transactions, investments,
		walletSvc, txSvc, investSvc, statsCache, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("invest API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("shutdown error")
	}
}
