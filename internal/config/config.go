package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type (
	Config struct {
		App      App      `env-prefix:"APP_"`
		Logger   Logger   `env-prefix:"LOGGER_"`
		Storage  Storage  `env-prefix:"STORAGE_"`
		Redis    Redis    `env-prefix:"REDIS_"`
		Postgres Postgres `env-prefix:"DB_"`
		HTTP     HTTP     `env-prefix:"HTTP_"`
		Cache    Cache    `env-prefix:"CACHE_"`
		Address  Address  `env-prefix:"ADDRESS_"`
		Kafka    Kafka    `env-prefix:"KAFKA_"`
		DLQ      DLQ      `env-prefix:"DLQ_"`
		Metrics  Metrics  `env-prefix:"METRICS_"`
		Env      string   `                        env:"ENV" env-default:"local" validate:"oneof=local dev staging prod"`
	}

	App struct {
		Name       string `env:"NAME"        env-default:"Phonebook API Service" validate:"required"`
		APIVersion string `env:"API_VERSION" env-default:"v1"                    validate:"required,alphanum"`
	}

	Storage struct {
		Driver         string        `env:"DRIVER"          env-default:"redis" validate:"oneof=redis postgres"`
		OperationLimit time.Duration `env:"OPERATION_LIMIT" env-default:"500ms" validate:"gte=10ms,lte=30s"`
	}

	Redis struct {
		Host           string        `env:"HOST"             env-default:"localhost"  validate:"required"`
		Port           string        `env:"PORT"             env-default:"6379"       validate:"required"`
		DB             int           `env:"DB"               env-default:"0"          validate:"gte=0,lte=15"`
		Password       string        `env:"PASSWORD"`
		KeyPrefix      string        `env:"KEY_PREFIX"       env-default:"phonebook:"`
		PoolSize       int           `env:"POOL_SIZE"        env-default:"20"         validate:"min=1,max=1000"`
		DialTimeout    time.Duration `env:"DIAL_TIMEOUT"     env-default:"3s"         validate:"gte=10ms,lte=30s"`
		ReadTimeout    time.Duration `env:"READ_TIMEOUT"     env-default:"1s"         validate:"gte=10ms,lte=30s"`
		WriteTimeout   time.Duration `env:"WRITE_TIMEOUT"    env-default:"1s"         validate:"gte=10ms,lte=30s"`
		ConnAttempts   int           `env:"CONN_ATTEMPTS"    env-default:"5"          validate:"min=1,max=10"`
		BaseRetryDelay time.Duration `env:"BASE_RETRY_DELAY" env-default:"100ms"      validate:"gte=10ms,lte=10s"`
		MaxRetryDelay  time.Duration `env:"MAX_RETRY_DELAY"  env-default:"5s"         validate:"gte=100ms,lte=30s,gtefield=BaseRetryDelay"`
	}

	Postgres struct {
		Host           string        `env:"HOST"             env-default:"localhost"`
		Port           string        `env:"PORT"             env-default:"5432"`
		Name           string        `env:"NAME"             env-default:"phonebook"`
		User           string        `env:"USER"             env-default:"phonebook"`
		Password       string        `env:"PASSWORD"`
		SSLMode        string        `env:"SSL_MODE"         env-default:"disable"   validate:"oneof=disable allow prefer require verify-ca verify-full"`
		PoolMax        int32         `env:"POOL_MAX"         env-default:"20"        validate:"min=1,max=100"`
		ConnAttempts   int           `env:"CONN_ATTEMPTS"    env-default:"5"         validate:"min=1,max=10"`
		BaseRetryDelay time.Duration `env:"BASE_RETRY_DELAY" env-default:"100ms"     validate:"gte=10ms,lte=10s"`
		MaxRetryDelay  time.Duration `env:"MAX_RETRY_DELAY"  env-default:"5s"        validate:"gte=100ms,lte=30s,gtefield=BaseRetryDelay"`
	}

	HTTP struct {
		Host              string        `env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `env:"PORT"                validate:"required"                 env-default:"8080"`
		ReadTimeout       time.Duration `env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=30s"         env-default:"5s"`
		IdleTimeout       time.Duration `env:"IDLE_TIMEOUT"        validate:"gte=10ms,lte=120s"        env-default:"60s"`
		ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT"    validate:"gte=10ms,lte=30s"         env-default:"10s"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	Cache struct {
		Capacity        int           `env:"CAPACITY"         validate:"required,min=1,max=1000000" env-default:"10000"`
		TTL             time.Duration `env:"TTL"              validate:"required,gt=0s,lte=24h"     env-default:"30s"`
		CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" validate:"gt=0s,lte=24h"              env-default:"10s"`
	}

	Address struct {
		Limits string `env:"LIMITS" env-default:"wide" validate:"oneof=wide narrow"`
	}

	Kafka struct {
		Enabled bool     `env:"ENABLED"  env-default:"false"`
		GroupID string   `env:"GROUP_ID" env-default:"phonebook-import"`
		Brokers []string `env:"BROKERS"  env-default:"localhost:9092"   validate:"required_if=Enabled true,dive,hostname_port" env-separator:","`
		Topic   string   `env:"TOPIC"    env-default:"phonebook-commands"`
	}

	DLQ struct {
		GroupID       string        `env:"GROUP_ID"        env-default:"phonebook-import-dlq"`
		Brokers       []string      `env:"BROKERS"         env-default:"localhost:9092"       validate:"dive,hostname_port" env-separator:","`
		Topic         string        `env:"TOPIC"           env-default:"phonebook-commands-dlq"`
		BatchSize     int           `env:"BATCH_SIZE"      validate:"required,min=1,max=1000"                    env-default:"100"`
		BatchTimeout  time.Duration `env:"BATCH_TIMEOUT"   validate:"required,gte=1ms,lte=30s"                   env-default:"1s"`
		WriteTimeout  time.Duration `env:"WRITE_TIMEOUT"   validate:"required,gte=1ms,lte=30s"                   env-default:"2s"`
		ReadTimeout   time.Duration `env:"READ_TIMEOUT"    validate:"required,gte=1ms,lte=30s"                   env-default:"2s"`
		MaxRetryCount int           `env:"MAX_RETRY_COUNT" validate:"min=1,max=20"                               env-default:"5"`
		RetryDelay    time.Duration `env:"RETRY_DELAY"     validate:"gte=10ms,lte=30s"                           env-default:"100ms"`
		MaxRetryDelay time.Duration `env:"MAX_RETRY_DELAY" validate:"gte=10ms,lte=60s,gtefield=RetryDelay"       env-default:"5s"`
	}

	Metrics struct {
		Host              string        `env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `env:"PORT"                validate:"required"                 env-default:"9090"`
		ReadTimeout       time.Duration `env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=30s"         env-default:"5s"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	Logger struct {
		Level      string `env:"LEVEL"       env-default:"info"                  validate:"oneof=debug info warn error"`
		Filename   string `env:"FILENAME"    env-default:"./logs/phonebook.log"`
		MaxSize    int    `env:"MAX_SIZE"    env-default:"100"                   validate:"min=1,max=1000"`
		MaxBackups int    `env:"MAX_BACKUPS" env-default:"3"                     validate:"min=1,max=20"`
		MaxAge     int    `env:"MAX_AGE"     env-default:"28"                    validate:"min=1,max=365"`
	}
)

// Load reads the file given by -config or CONFIG_PATH. Without either it
// falls back to the process environment and defaults.
func Load() (*Config, error) {
	path := fetchConfigPath()
	if path == "" {
		return LoadEnv()
	}
	return LoadPath(path)
}

func LoadPath(configPath string) (*Config, error) {
	const op = "config.LoadPath"

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	} else if err != nil {
		return nil, fmt.Errorf("%s: checking config file: %w", op, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: read config: %w", op, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func LoadEnv() (*Config, error) {
	const op = "config.LoadEnv"

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: read env: %w", op, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	v := validator.New()

	var validationErrors []string
	if err := v.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, ve := range validationErrs {
				validationErrors = append(validationErrors,
					fmt.Sprintf("%s=%v must satisfy '%s'", ve.Field(), ve.Value(), ve.Tag()))
			}
			return fmt.Errorf("config validation: %v", strings.Join(validationErrors, "; "))
		}
		return fmt.Errorf("config validation: %w", err)
	}

	if cfg.Storage.Driver == StoragePostgres && cfg.Postgres.Host == "" {
		return errors.New("config validation: DB_HOST is required for the postgres driver")
	}

	return nil
}

func fetchConfigPath() string {
	var path string
	if f := flag.Lookup("config"); f != nil {
		path = f.Value.String()
	} else {
		flag.StringVar(&path, "config", "", "Path to config file")
		flag.Parse()
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}
