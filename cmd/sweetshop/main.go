package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sweetshop/internal/auth"
	"sweetshop/internal/catalog"
	"sweetshop/internal/config"
	"sweetshop/internal/db"
	"sweetshop/internal/httpserver"
	"sweetshop/internal/logging"
)

func main() {
	ctx := context.Background()
	logger := logging.New()

	cfg := config.Load()

	dbConn, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()

	if err := db.ApplySchema(ctx, dbConn, "sql/schema.sql"); err != nil {
		log.Fatalf("apply schema: %v", err)
	}

	userStore := auth.NewStore(dbConn)
	authSvc := auth.NewService(userStore, cfg.JWTSecret, cfg.TokenTTL)

	sweetStore := catalog.NewStore(dbConn)
	if err := sweetStore.SeedFromFile(ctx, cfg.SeedPath); err != nil {
		log.Fatalf("seed sweets: %v", err)
	}

	handler := httpserver.NewRouter(logger, authSvc, sweetStore)
	server := httpserver.New(cfg.HTTPAddr, handler, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
