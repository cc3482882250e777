package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"grocermart/internal/config"
	"grocermart/internal/db"
	"grocermart/internal/httpserver"
	orderrepo "grocermart/internal/repository/order"
	productrepo "grocermart/internal/repository/product"
	sessionrepo "grocermart/internal/repository/session"
	userrepo "grocermart/internal/repository/user"
	cartsvc "grocermart/internal/service/cart"
	catalogsvc "grocermart/internal/service/catalog"
	ordersvc "grocermart/internal/service/order"
	usersvc "grocermart/internal/service/user"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	sessionRepo := sessionrepo.NewPostgres(dbpool)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)

	feed := httpserver.NewHub(logger)

	cartService := cartsvc.New(sessionRepo, productRepo)
	catalogService := catalogsvc.New(productRepo)
	orderService := ordersvc.New(orderRepo, sessionRepo, feed, logger)
	userService := usersvc.New(userRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Sessions:    sessionRepo,
		Cart:        cartService,
		Orders:      orderService,
		Catalog:     catalogService,
		Users:       userService,
		Feed:        feed,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
