package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type EnvConfig struct {
	Postgres struct {
		HOST     string
		Database string
		Username string
		Password string
		Port     string
		SSLMode  string
	}
	JWT struct {
		SecretKey string
		Algorithm string
		Expire    int
	}
	CORS struct {
		AllowDomains string
		GlobalDomain string
	}
	Redis struct {
		Password  string
		Database  int
		RedisHost string
		RedisPort string
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	Storage struct {
		Backend       string // "minio" or "s3"
		Endpoint      string
		Region        string
		Bucket        string
		AccessKey     string
		SecretKey     string
		UseSSL        bool
		UsePathStyle  bool
		PublicBaseURL string // ASSET_BASE, public objects resolve to <PublicBaseURL>/<key>
		PresignTTL    time.Duration
	}
	Minio struct {
		RootUser     string
		RootPassword string
	}
	Upload struct {
		PendingTTL            time.Duration
		MaxBytes              int64
		SweepInterval         time.Duration
		BulkDeleteConcurrency int
	}
	Cache struct {
		PublicTTL time.Duration
	}
	Contact struct {
		NotifyEmail string
		RateLimit   int64
		RateWindow  time.Duration
	}
	Grafana struct {
		OTLPEndpoint string
		ServiceName  string
	}
	Environment struct {
		Mode  string
		Group string
	}
	HTTP struct {
		Port string
	}
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	// Postgres
	config.Postgres.HOST = os.Getenv("PGPOOL_HOST")
	config.Postgres.Database = os.Getenv("PGPOOL_DB")
	config.Postgres.Username = os.Getenv("PGPOOL_USER")
	config.Postgres.Password = os.Getenv("PGPOOL_PASSWORD")
	config.Postgres.Port = os.Getenv("PGPOOL_PORT")
	if config.Postgres.Port == "" {
		config.Postgres.Port = "5432"
	}
	config.Postgres.SSLMode = os.Getenv("PGPOOL_SSLMODE")
	if config.Postgres.SSLMode == "" {
		config.Postgres.SSLMode = "disable"
	}

	// JWT
	config.JWT.SecretKey = os.Getenv("JWT_SECRET_KEY")
	config.JWT.Algorithm = os.Getenv("JWT_ALGORITHM")
	if config.JWT.Algorithm == "" {
		config.JWT.Algorithm = "HS256"
	}
	if val := os.Getenv("JWT_EXPIRE"); val != "" {
		fmt.Sscanf(val, "%d", &config.JWT.Expire)
	} else {
		config.JWT.Expire = 3600 * 24
	}

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")
	config.CORS.GlobalDomain = os.Getenv("GLOBAL_DOMAIN")

	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	config.Redis.RedisHost = os.Getenv("REDIS_HOST")
	if config.Redis.RedisHost == "" {
		config.Redis.RedisHost = "localhost"
	}
	config.Redis.RedisPort = os.Getenv("REDIS_PORT")
	if config.Redis.RedisPort == "" {
		config.Redis.RedisPort = "6379"
	}

	// RabbitMQ
	config.RabbitMQ.Host = os.Getenv("RABBITMQ_HOST")
	if config.RabbitMQ.Host == "" {
		config.RabbitMQ.Host = "localhost"
	}
	config.RabbitMQ.Port = os.Getenv("RABBITMQ_PORT")
	if config.RabbitMQ.Port == "" {
		config.RabbitMQ.Port = "5672"
	}
	config.RabbitMQ.Username = os.Getenv("RABBITMQ_USER")
	if config.RabbitMQ.Username == "" {
		config.RabbitMQ.Username = "guest"
	}
	config.RabbitMQ.Password = os.Getenv("RABBITMQ_PASSWORD")
	if config.RabbitMQ.Password == "" {
		config.RabbitMQ.Password = "guest"
	}

	// Object storage
	config.Storage.Backend = strings.ToLower(os.Getenv("STORAGE_BACKEND"))
	if config.Storage.Backend == "" {
		config.Storage.Backend = "minio"
	}
	config.Storage.Endpoint = os.Getenv("STORAGE_ENDPOINT")
	config.Storage.Region = os.Getenv("STORAGE_REGION")
	if config.Storage.Region == "" {
		config.Storage.Region = "us-east-1"
	}
	config.Storage.Bucket = os.Getenv("STORAGE_BUCKET")
	if config.Storage.Bucket == "" {
		config.Storage.Bucket = "charcoal-media"
	}
	config.Storage.AccessKey = os.Getenv("STORAGE_ACCESS_KEY")
	config.Storage.SecretKey = os.Getenv("STORAGE_SECRET_KEY")
	config.Storage.UseSSL = parseBool(os.Getenv("STORAGE_USE_SSL"), false)
	config.Storage.UsePathStyle = parseBool(os.Getenv("STORAGE_USE_PATH_STYLE"), true)
	config.Storage.PublicBaseURL = strings.TrimSuffix(os.Getenv("ASSET_BASE_URL"), "/")
	config.Storage.PresignTTL = parseDuration(os.Getenv("STORAGE_PRESIGN_TTL"), 15*time.Minute)

	config.Minio.RootUser = os.Getenv("MINIO_ROOT_USER")
	config.Minio.RootPassword = os.Getenv("MINIO_ROOT_PASSWORD")

	// Upload ledger
	config.Upload.PendingTTL = parseDuration(os.Getenv("UPLOAD_PENDING_TTL"), time.Hour)
	if val := os.Getenv("UPLOAD_MAX_BYTES"); val != "" {
		if maxBytes, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.Upload.MaxBytes = maxBytes
		} else {
			config.Upload.MaxBytes = 20 << 20 // Default 20MB
		}
	} else {
		config.Upload.MaxBytes = 20 << 20 // Default 20MB
	}
	config.Upload.SweepInterval = parseDuration(os.Getenv("UPLOAD_SWEEP_INTERVAL"), 10*time.Minute)
	config.Upload.BulkDeleteConcurrency, _ = strconv.Atoi(os.Getenv("UPLOAD_BULK_DELETE_CONCURRENCY"))
	if config.Upload.BulkDeleteConcurrency <= 0 {
		config.Upload.BulkDeleteConcurrency = 8
	}

	config.Cache.PublicTTL = parseDuration(os.Getenv("PUBLIC_CACHE_TTL"), time.Minute)

	config.Contact.NotifyEmail = os.Getenv("CONTACT_NOTIFY_EMAIL")
	config.Contact.RateLimit, _ = strconv.ParseInt(os.Getenv("CONTACT_RATE_LIMIT"), 10, 64)
	if config.Contact.RateLimit <= 0 {
		config.Contact.RateLimit = 5
	}
	config.Contact.RateWindow = parseDuration(os.Getenv("CONTACT_RATE_WINDOW"), 10*time.Minute)

	// Grafana/OpenTelemetry
	grafanaEndpoint := os.Getenv("GRAFANA_OTLP_ENDPOINT")
	grafanaEndpoint = strings.TrimPrefix(grafanaEndpoint, "https://")
	grafanaEndpoint = strings.TrimPrefix(grafanaEndpoint, "http://")
	config.Grafana.OTLPEndpoint = grafanaEndpoint
	config.Grafana.ServiceName = os.Getenv("SERVICE_NAME")
	if config.Grafana.ServiceName == "" {
		config.Grafana.ServiceName = "charcoal-cms"
	}

	config.Environment.Mode = os.Getenv("DEPLOY_ENV")
	if config.Environment.Mode == "" {
		config.Environment.Mode = "development"
	}
	config.Environment.Group = os.Getenv("GROUP_NAME")
	if config.Environment.Group == "" {
		config.Environment.Group = "local"
	}

	config.HTTP.Port = os.Getenv("PORT")
	if config.HTTP.Port == "" {
		config.HTTP.Port = "8080"
	}

	return &config
}

// PostgresDSN renders the libpq connection string for gorm's postgres driver.
func (c *EnvConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Postgres.HOST, c.Postgres.Username, c.Postgres.Password, c.Postgres.Database, c.Postgres.Port, c.Postgres.SSLMode)
}

func parseDuration(val string, fallback time.Duration) time.Duration {
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseBool(val string, fallback bool) bool {
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}
