package infra

import (
	"github.com/tnqbao/charcoal-cms/config"
	"github.com/tnqbao/charcoal-cms/infra/produce"
)

type Infra struct {
	Redis     *RedisClient
	Postgres  *PostgresClient
	Logger    *LoggerClient
	Telemetry *Telemetry
	RabbitMQ  *RabbitMQClient
	Produce   *produce.Produce
	Storage   ObjectStorage
	Minio     *MinioClient // nil unless STORAGE_BACKEND=minio
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	telemetry := InitTelemetry(cfg.EnvConfig)

	logger := InitLoggerClient(cfg.EnvConfig)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	redis := InitRedisClient(cfg.EnvConfig)
	if redis == nil {
		panic("Failed to initialize Redis service")
	}

	postgres := InitPostgresClient(cfg.EnvConfig)
	if postgres == nil {
		panic("Failed to initialize Postgres service")
	}

	rabbitMQ := InitRabbitMQClient(cfg.EnvConfig)
	if rabbitMQ == nil {
		panic("Failed to initialize RabbitMQ service")
	}

	produceService := produce.InitProduce(rabbitMQ.Channel)
	if produceService == nil {
		panic("Failed to initialize Produce service")
	}

	storage, minio := InitObjectStorage(cfg.EnvConfig)
	if storage == nil {
		panic("Failed to initialize object storage")
	}

	infraInstance = &Infra{
		Redis:     redis,
		Postgres:  postgres,
		Logger:    logger,
		Telemetry: telemetry,
		RabbitMQ:  rabbitMQ,
		Produce:   produceService,
		Storage:   storage,
		Minio:     minio,
	}

	return infraInstance
}
