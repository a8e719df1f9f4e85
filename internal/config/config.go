package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	LLM      LLMConfig
	Storage  StorageConfig
	S3       S3Config
	Qdrant   QdrantConfig
	AMQP     AMQPConfig
	Worker   WorkerConfig
	Pipeline PipelineConfig
}

type ServerConfig struct {
	Port string `validate:"required,numeric"`
	Env  string `validate:"oneof=development production test"`
}

type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     string `validate:"required,numeric"`
	User     string `validate:"required"`
	Password string
	DBName   string `validate:"required"`
	SSLMode  string `validate:"oneof=disable require verify-ca verify-full"`

	MaxOpenConns    int `validate:"gte=0"`
	MaxIdleConns    int `validate:"gte=0"`
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret  string        `validate:"required,min=32"`
	Expiration time.Duration `validate:"gt=0"`
	Issuer     string
}

type LLMConfig struct {
	Provider          string `validate:"oneof=perplexity gemini"`
	PerplexityAPIKey  string `validate:"required_if=Provider perplexity"`
	PerplexityBaseURL string `validate:"omitempty,url"`
	PerplexityModel   string `validate:"required_if=Provider perplexity"`
	GeminiAPIKey      string `validate:"required_if=Provider gemini"`
	GeminiModel       string
	RequestsPerMinute int           `validate:"gte=0"`
	MaxRetries        int           `validate:"gte=0,lte=10"`
	RetryInitialDelay time.Duration `validate:"gte=0"`
	HTTPTimeout       time.Duration `validate:"gt=0"`
	JobRegion         string
	MinJobResults     int `validate:"gte=1"`
}

type StorageConfig struct {
	Driver        string `validate:"oneof=local s3"`
	UploadPath    string `validate:"required_if=Driver local"`
	PublicBaseURL string `validate:"required,url"`
	MaxFileSize   int64  `validate:"gt=0"`
}

type S3Config struct {
	Endpoint  string `validate:"omitempty,url"`
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

type QdrantConfig struct {
	URL        string `validate:"omitempty,url"`
	APIKey     string
	Collection string
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type WorkerConfig struct {
	Concurrency int `validate:"gte=1"`
	QueueSize   int `validate:"gte=1"`
}

type PipelineConfig struct {
	UploadTimeout   time.Duration `validate:"gte=0"`
	AnalysisTimeout time.Duration `validate:"gte=0"`
	MatchTimeout    time.Duration `validate:"gte=0"`
	SaveTimeout     time.Duration `validate:"gte=0"`
	ExcerptChars    int           `validate:"gte=0"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "careerspark"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "30m"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", ""),
			Expiration: getEnvAsDuration("JWT_EXPIRATION", "24h"),
			Issuer:     getEnv("JWT_ISSUER", "careerspark"),
		},
		LLM: LLMConfig{
			Provider:          getEnv("LLM_PROVIDER", "perplexity"),
			PerplexityAPIKey:  getEnv("PERPLEXITY_API_KEY", ""),
			PerplexityBaseURL: getEnv("PERPLEXITY_BASE_URL", "https://api.perplexity.ai"),
			PerplexityModel:   getEnv("PERPLEXITY_MODEL", "sonar-pro"),
			GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			RequestsPerMinute: getEnvAsInt("LLM_REQUESTS_PER_MINUTE", 30),
			MaxRetries:        getEnvAsInt("LLM_MAX_RETRIES", 2),
			RetryInitialDelay: getEnvAsDuration("LLM_RETRY_INITIAL_DELAY", "500ms"),
			HTTPTimeout:       getEnvAsDuration("LLM_HTTP_TIMEOUT", "120s"),
			JobRegion:         getEnv("JOB_REGION", "India"),
			MinJobResults:     getEnvAsInt("JOB_MIN_RESULTS", 20),
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", "local"),
			UploadPath:    getEnv("UPLOAD_PATH", "./uploads"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", "http://localhost:3000/files"),
			MaxFileSize:   getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Region:    getEnv("S3_REGION", "auto"),
			Bucket:    getEnv("S3_BUCKET", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "careerspark_jobs"),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "resume_progress"),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 3),
			QueueSize:   getEnvAsInt("WORKER_QUEUE_SIZE", 100),
		},
		Pipeline: PipelineConfig{
			UploadTimeout:   getEnvAsDuration("PIPELINE_UPLOAD_TIMEOUT", "30s"),
			AnalysisTimeout: getEnvAsDuration("PIPELINE_ANALYSIS_TIMEOUT", "3m"),
			MatchTimeout:    getEnvAsDuration("PIPELINE_MATCH_TIMEOUT", "3m"),
			SaveTimeout:     getEnvAsDuration("PIPELINE_SAVE_TIMEOUT", "30s"),
			ExcerptChars:    getEnvAsInt("PIPELINE_EXCERPT_CHARS", 12000),
		},
	}
}

// Validate checks field constraints and the settings that depend on each
// other.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Storage.Driver == "s3" {
		if c.S3.Bucket == "" || c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			return fmt.Errorf("invalid configuration: S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY are required when STORAGE_DRIVER=s3")
		}
	}

	if c.JobIndexEnabled() && c.LLM.GeminiAPIKey == "" {
		return fmt.Errorf("invalid configuration: GEMINI_API_KEY is required for the job index (QDRANT_URL is set)")
	}

	return nil
}

// JobIndexEnabled reports whether semantic job search is configured.
func (c *Config) JobIndexEnabled() bool {
	return c.Qdrant.URL != ""
}

// ProgressPublishingEnabled reports whether progress goes to RabbitMQ.
func (c *Config) ProgressPublishingEnabled() bool {
	return c.AMQP.URL != ""
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
