package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tnqbao/charcoal-cms/config"
	"github.com/tnqbao/charcoal-cms/consumer/worker"
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
	services := service.InitServices(cfg, infra, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deleteConsumer := worker.NewObjectDeleteConsumer(infra.RabbitMQ.Channel, infra.Storage, repo.MediaAssetRepo, infra.Logger)
	if err := deleteConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start object delete consumer: %v", err)
		log.Fatalf("Failed to start object delete consumer: %v", err)
	}

	sweeper := worker.NewPendingUploadSweeper(services.Media, cfg.EnvConfig.Upload.SweepInterval, infra.Logger)
	sweeper.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	if err := infra.RabbitMQ.Close(); err != nil {
		log.Printf("RabbitMQ close: %v", err)
	}
	if err := infra.Logger.Shutdown(context.Background()); err != nil {
		log.Printf("Logger shutdown: %v", err)
	}
	if err := infra.Telemetry.Shutdown(context.Background()); err != nil {
		log.Printf("Telemetry shutdown: %v", err)
	}
	infra.Logger.InfoWithContextf(ctx, "Consumer exited properly")
}
