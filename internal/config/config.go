// Package config reads service settings from the environment, an optional
// .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Holdprint HoldprintConfig `mapstructure:"holdprint"`
	Photos    PhotoConfig     `mapstructure:"photos"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Taxonomy  TaxonomyConfig  `mapstructure:"taxonomy"`
	Sync      SyncConfig      `mapstructure:"sync"`
}

type HTTPConfig struct {
	Port      string `mapstructure:"port"`
	BodyLimit string `mapstructure:"bodylimit"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	URL          string `mapstructure:"url"`
	MaxOpenConns int    `mapstructure:"maxopenconns"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HoldprintConfig struct {
	BaseURL   string        `mapstructure:"baseurl"`
	APIKeyPOA string        `mapstructure:"apikeypoa"`
	APIKeySP  string        `mapstructure:"apikeysp"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Retries   int           `mapstructure:"retries"`
}

// APIKeys returns the configured keys by branch code.
func (c HoldprintConfig) APIKeys() map[string]string {
	keys := map[string]string{}
	if c.APIKeyPOA != "" {
		keys["POA"] = c.APIKeyPOA
	}
	if c.APIKeySP != "" {
		keys["SP"] = c.APIKeySP
	}
	return keys
}

type PhotoConfig struct {
	Dir string `mapstructure:"dir"`
}

type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	ReportTTL time.Duration `mapstructure:"reportttl"`
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type TaxonomyConfig struct {
	File           string        `mapstructure:"file"`
	FamilyCacheTTL time.Duration `mapstructure:"familycachettl"`
}

type SyncConfig struct {
	Workers int `mapstructure:"workers"`
}

const maxSyncWorkers = 10

type envBinding struct {
	ConfigKey string
	EnvVar    string
}

var envBindings = []envBinding{
	{"http.port", "PORT"},
	{"http.bodylimit", "HTTP_BODY_LIMIT"},
	{"database.driver", "DATABASE_DRIVER"},
	{"database.url", "DATABASE_URL"},
	{"database.maxopenconns", "DATABASE_MAX_OPEN_CONNS"},
	{"log.level", "LOG_LEVEL"},
	{"log.format", "LOG_FORMAT"},
	{"holdprint.baseurl", "HOLDPRINT_API_URL"},
	{"holdprint.apikeypoa", "HOLDPRINT_API_KEY_POA"},
	{"holdprint.apikeysp", "HOLDPRINT_API_KEY_SP"},
	{"holdprint.timeout", "HOLDPRINT_TIMEOUT"},
	{"holdprint.retries", "HOLDPRINT_RETRIES"},
	{"photos.dir", "PHOTO_DIR"},
	{"redis.addr", "REDIS_ADDR"},
	{"redis.password", "REDIS_PASSWORD"},
	{"redis.db", "REDIS_DB"},
	{"redis.reportttl", "REPORT_CACHE_TTL"},
	{"taxonomy.file", "TAXONOMY_FILE"},
	{"taxonomy.familycachettl", "FAMILY_CACHE_TTL"},
	{"sync.workers", "SYNC_WORKERS"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.bodylimit", "10M")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.maxopenconns", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("holdprint.baseurl", "https://api.holdworks.ai")
	v.SetDefault("holdprint.timeout", 30*time.Second)
	v.SetDefault("holdprint.retries", 2)
	v.SetDefault("photos.dir", "./data/photos")
	v.SetDefault("redis.reportttl", 5*time.Minute)
	v.SetDefault("taxonomy.familycachettl", 10*time.Minute)
	v.SetDefault("sync.workers", 4)
}

// Load resolves settings with precedence env > YAML file > defaults. A .env
// file in the working directory is loaded first when present. configFile
// may be empty; CONFIG_FILE is used then.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	for _, b := range envBindings {
		if err := v.BindEnv(b.ConfigKey, b.EnvVar); err != nil {
			return nil, fmt.Errorf("bind %s: %w", b.EnvVar, err)
		}
	}

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Sync.Workers <= 0 {
		c.Sync.Workers = 1
	}
	if c.Sync.Workers > maxSyncWorkers {
		c.Sync.Workers = maxSyncWorkers
	}
	if c.Holdprint.Retries < 0 {
		c.Holdprint.Retries = 0
	}
	return nil
}
