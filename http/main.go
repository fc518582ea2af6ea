package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tnqbao/charcoal-cms/config"
	"github.com/tnqbao/charcoal-cms/http/controller"
	"github.com/tnqbao/charcoal-cms/http/controller/dto"
	"github.com/tnqbao/charcoal-cms/http/route"
	infraPkg "github.com/tnqbao/charcoal-cms/infra"
	"github.com/tnqbao/charcoal-cms/repository"
	"github.com/tnqbao/charcoal-cms/service"
)

func main() {
	err := godotenv.Load("staging.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)
	ctx := context.Background()

	if err := repo.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if infra.Minio != nil {
		var prefixes []string
		for kind := range service.DefaultKindPolicies() {
			prefixes = append(prefixes, string(kind))
		}
		if err := infra.Minio.EnsureBucket(ctx, cfg.EnvConfig.Storage.Region, prefixes); err != nil {
			log.Fatalf("Failed to prepare media bucket: %v", err)
		}
	}

	if err := dto.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	services := service.InitServices(cfg, infra, repo)
	ctrl := controller.NewController(cfg, infra, repo, services)
	router := routes.SetupRouter(ctrl)

	srv := &http.Server{
		Addr:              ":" + cfg.EnvConfig.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		infra.Logger.InfoWithContextf(ctx, "HTTP Server started on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Server forced to shutdown: %v", err)
	}
	if err := infra.RabbitMQ.Close(); err != nil {
		log.Printf("RabbitMQ close: %v", err)
	}
	if err := infra.Redis.Close(); err != nil {
		log.Printf("Redis close: %v", err)
	}
	if err := infra.Logger.Shutdown(shutdownCtx); err != nil {
		log.Printf("Logger shutdown: %v", err)
	}
	if err := infra.Telemetry.Shutdown(shutdownCtx); err != nil {
		log.Printf("Telemetry shutdown: %v", err)
	}
	log.Println("Server exited properly")
}
