package main

import (
	"context"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tienda-storefront/internal/api"
	"tienda-storefront/internal/auth"
	"tienda-storefront/internal/config"
	"tienda-storefront/internal/httpapi"
	"tienda-storefront/internal/logger"
	"tienda-storefront/internal/session"
	"tienda-storefront/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	var store storage.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store = storage.NewRedisStore(client, "storefront:")
	} else {
		store, err = storage.NewFileStore(cfg.CartStoreDir)
		if err != nil {
			logger.L().Fatal("open cart storage", zap.Error(err))
		}
	}

	creds := auth.NewCredentials(cfg.AccessToken)
	backend := api.NewClient(cfg.BackendURL, creds)

	s := session.New(context.Background(), session.Config{
		Storage:        store,
		API:            backend,
		Profile:        session.Profile{Username: cfg.Username, Email: cfg.Email},
		Credentials:    creds,
		DefaultCountry: cfg.DefaultCountry,
	})

	handler := httpapi.NewHandler(s, backend)

	logger.L().Info("storefront session facade listening",
		zap.String("port", cfg.AppPort),
		zap.String("backend", cfg.BackendURL))
	if err := http.ListenAndServe(":"+cfg.AppPort, handler.Router()); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
