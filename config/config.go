package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	Server struct {
		Port            string        `env:"PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
		WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	} `envPrefix:"SERVER_"`

	Database struct {
		DSN             string        `env:"DSN,required"`
		MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
		ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
		ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"5m"`
		AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	} `envPrefix:"DATABASE_"`

	JWT struct {
		Secret     string        `env:"SECRET,required"`
		Expiration time.Duration `env:"EXPIRATION" envDefault:"24h"`
	} `envPrefix:"JWT_"`

	Storage struct {
		Provider       string `env:"PROVIDER" envDefault:"gcs"`
		Bucket         string `env:"BUCKET,required"`
		PublicBaseURL  string `env:"PUBLIC_BASE_URL"`
		S3Endpoint     string `env:"S3_ENDPOINT"`
		S3Region       string `env:"S3_REGION" envDefault:"us-east-1"`
		S3AccessKey    string `env:"S3_ACCESS_KEY"`
		S3SecretKey    string `env:"S3_SECRET_KEY"`
		MaxResumeBytes int64  `env:"MAX_RESUME_BYTES" envDefault:"5242880"`
		SniffContent   bool   `env:"SNIFF_CONTENT" envDefault:"false"`
	} `envPrefix:"STORAGE_"`

	Redis struct {
		URL    string        `env:"URL"`
		JobTTL time.Duration `env:"JOB_TTL" envDefault:"5m"`
	} `envPrefix:"REDIS_"`

	Mongo struct {
		URI      string `env:"URI"`
		Database string `env:"DB" envDefault:"yoojob"`
	} `envPrefix:"MONGO_"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse(env.Options{})
}

// Parse builds the config from opts, which tests use to inject an environment.
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			// first error keeps the startup log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Provider {
	case "gcs", "s3":
	default:
		return fmt.Errorf("STORAGE_PROVIDER must be gcs or s3, got %q", c.Storage.Provider)
	}
	if c.Storage.MaxResumeBytes <= 0 {
		return errors.New("STORAGE_MAX_RESUME_BYTES must be positive")
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	return nil
}
