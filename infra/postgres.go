package infra

import (
	"fmt"
	"log"
	"time"

	"github.com/tnqbao/charcoal-cms/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PostgresClient struct {
	DB *gorm.DB
}

func InitPostgresClient(cfg *config.EnvConfig) *PostgresClient {
	logLevel := logger.Warn
	if cfg.Environment.Mode == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatalf("Postgres connection failed: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Postgres pool unavailable: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Println("Connected to Postgres:", fmt.Sprintf("%s:%s/%s", cfg.Postgres.HOST, cfg.Postgres.Port, cfg.Postgres.Database))

	return &PostgresClient{DB: db}
}

func (p *PostgresClient) Close() error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
