package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/tracklight-app/tracklight-backend/config"
	"github.com/tracklight-app/tracklight-backend/internal/bootstrap"
	cronjob "github.com/tracklight-app/tracklight-backend/internal/invitations/cron"
	"github.com/tracklight-app/tracklight-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	clients, err := store.NewClients(ctx, &cfg.Firebase)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}
	defer clients.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	app := bootstrap.Build(ctx, bootstrap.Deps{
		ServiceName: "tracklight-backend",
		Version:     cfg.App.Version,
		Clients:     clients,
		Redis:       rdb,
	})

	if cfg.Reconcile.Enabled {
		scheduler := cronjob.NewScheduler(app.Reconciler, cfg.Reconcile.Schedule)
		if err := scheduler.Start(); err != nil {
			log.Fatalf("cron: %v", err)
		}
		defer scheduler.Stop()
	}

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := app.Router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
