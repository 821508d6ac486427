package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort   string `mapstructure:"http_port"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSslMode  string `mapstructure:"db_sslmode"`

	LogLevel           string   `mapstructure:"log_level"`
	JWTSecret          string   `mapstructure:"jwt_secret"`
	CORSOrigins        []string `mapstructure:"cors_origins"`
	RateLimitPerSecond float64  `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int      `mapstructure:"rate_limit_burst"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisChannel  string `mapstructure:"redis_channel"`

	KafkaBrokers  []string `mapstructure:"kafka_brokers"`
	KafkaTopic    string   `mapstructure:"kafka_topic"`
	KafkaClientID string   `mapstructure:"kafka_client_id"`

	S3Region        string `mapstructure:"s3_region"`
	S3Bucket        string `mapstructure:"s3_bucket"`
	S3Endpoint      string `mapstructure:"s3_endpoint"`
	S3PublicBaseURL string `mapstructure:"s3_public_base_url"`
	S3KeyPrefix     string `mapstructure:"s3_key_prefix"`

	AssignmentInterval time.Duration `mapstructure:"assignment_interval"`
	AssignmentBatch    int           `mapstructure:"assignment_batch"`
}

var defaults = map[string]any{
	"http_port":   "8080",
	"db_host":     "localhost",
	"db_port":     "5432",
	"db_user":     "postgres",
	"db_password": "",
	"db_name":     "fulfillment",
	"db_sslmode":  "disable",

	"log_level":             "info",
	"jwt_secret":            "",
	"cors_origins":          "",
	"rate_limit_per_second": 20.0,
	"rate_limit_burst":      40,

	"redis_addr":     "",
	"redis_password": "",
	"redis_db":       0,
	"redis_channel":  "fulfillment.notifications",

	"kafka_brokers":   "",
	"kafka_topic":     "fulfillment.deliveries",
	"kafka_client_id": "fulfillment",

	"s3_region":          "eu-west-1",
	"s3_bucket":          "afrimercato-delivery-proofs",
	"s3_endpoint":        "",
	"s3_public_base_url": "",
	"s3_key_prefix":      "",

	"assignment_interval": "30s",
	"assignment_batch":    50,
}

// LoadConfig reads .env when present, then the optional config file, then
// the environment. Environment variables are the upper-cased keys.
func LoadConfig(cfgFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.CORSOrigins = compact(cfg.CORSOrigins)
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	return cfg, nil
}

// Validate checks what the HTTP server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DBHost == "" || c.DBName == "" {
		errs = append(errs, errors.New("DB_HOST and DB_NAME are required"))
	}
	if c.AssignmentInterval < time.Second {
		errs = append(errs, fmt.Errorf("ASSIGNMENT_INTERVAL %s is below one second", c.AssignmentInterval))
	}
	return errors.Join(errs...)
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
