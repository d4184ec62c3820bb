package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local" validate:"oneof=local dev prod"`
	HTTPServer HTTPServer `yaml:"http_server"`
	DB         DB         `yaml:"db"`
	Cache      Cache      `yaml:"cache"`
	Auth       Auth       `yaml:"auth"`
	Metrics    Metrics    `yaml:"metrics"`
}

// HTTPServer limits header reads to Timeout and whole request bodies and
// responses to TransferTimeout, which must fit a MaxBodySize upload.
type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080" validate:"required"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	TransferTimeout time.Duration `yaml:"transfer_timeout" env:"HTTP_TRANSFER_TIMEOUT" env-default:"10m" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	MaxBodySize     int64         `yaml:"max_body_size" env:"HTTP_MAX_BODY_SIZE" env-default:"104857600" validate:"gt=0"`
}

type DB struct {
	Addr     string `yaml:"addr" env:"DB_ADDR" env-default:"localhost" validate:"required"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DB       string `yaml:"db" env:"DB_NAME" env-default:"cloudstorage" validate:"required"`
}

// Cache configures the file list cache. An empty Addr keeps the cache in process.
type Cache struct {
	Addr     string        `yaml:"addr" env:"CACHE_ADDR"`
	Password string        `yaml:"password" env:"CACHE_PASSWORD"`
	DB       int           `yaml:"db" env:"CACHE_DB" env-default:"0"`
	Prefix   string        `yaml:"prefix" env:"CACHE_PREFIX" env-default:"cloudstorage:"`
	ListTTL  time.Duration `yaml:"list_ttl" env:"CACHE_LIST_TTL" env-default:"5m"`
}

type Auth struct {
	Secret        string        `yaml:"secret" env:"AUTH_SECRET" validate:"required,min=32"`
	TokenTTL      time.Duration `yaml:"token_ttl" env:"AUTH_TOKEN_TTL" env-default:"1h" validate:"gt=0"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"AUTH_SWEEP_INTERVAL" env-default:"1m"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path" env:"METRICS_PATH" env-default:"/metrics"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load reads the YAML file at path, applies env overrides and validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
