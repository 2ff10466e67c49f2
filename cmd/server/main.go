package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deadsignal/config"
	"deadsignal/internal/database"
	"deadsignal/internal/router"
	"deadsignal/internal/service"
	"deadsignal/pkg/cloudinary"
	"deadsignal/pkg/s3store"
	"deadsignal/pkg/sensor"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.SeedGhostTypes(db); err != nil {
		log.Fatalf("seed ghosts: %v", err)
	}
	if err := database.SeedAdmin(db, &cfg.Admin); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	uploader, err := photoUploader(cfg)
	if err != nil {
		log.Fatalf("photo storage: %v", err)
	}

	seed := cfg.Hunt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := sensor.NewLockedSource(seed)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	engine := router.Setup(ctx, cfg, db, uploader, rng)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}

// photoUploader builds the configured capture store. A store without
// credentials disables uploads rather than failing startup.
func photoUploader(cfg *config.Config) (service.PhotoUploader, error) {
	switch cfg.Storage.Backend {
	case "s3":
		store, err := s3store.New(context.Background(), cfg.Storage.S3Bucket, cfg.Storage.S3Region, cfg.Storage.S3PublicURL)
		if errors.Is(err, s3store.ErrNotConfigured) {
			log.Printf("[s3] photo uploads disabled: set S3_CAPTURE_BUCKET to enable")
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		log.Printf("[s3] photo uploads to bucket %s", cfg.Storage.S3Bucket)
		return store, nil
	case "cloudinary", "":
		cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if errors.Is(err, cloudinary.ErrNotConfigured) {
			log.Printf("[cloudinary] photo uploads disabled: set CLOUDINARY_* to enable")
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return cloud, nil
	default:
		return nil, fmt.Errorf("unknown PHOTO_STORAGE %q", cfg.Storage.Backend)
	}
}
