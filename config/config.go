package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	Debug                    bool          `envconfig:"debug"`
	Port                     int           `envconfig:"port" default:"8080"`
	Env                      string        `envconfig:"env" default:"development"`
	StorageDriver            string        `envconfig:"storage_driver" default:"sqlite"`
	SQLitePath               string        `envconfig:"sqlite_path" default:"wefixsa.db"`
	PostgresHost             string        `envconfig:"postgres_host"`
	PostgresUser             string        `envconfig:"postgres_user"`
	PostgresDB               string        `envconfig:"postgres_db"`
	PostgresPort             int           `envconfig:"postgres_port" default:"5432"`
	PostgresPassword         string        `envconfig:"postgres_password"`
	RedisAddr                string        `envconfig:"redis_addr" default:"localhost:6379"`
	RedisPassword            string        `envconfig:"redis_password"`
	RedisDB                  int           `envconfig:"redis_db"`
	RedisKeyPrefix           string        `envconfig:"redis_key_prefix" default:"wefixsa:"`
	JWTSecret                string        `envconfig:"jwt_secret" default:"wefixsa-dev-secret"`
	TokenTTL                 time.Duration `envconfig:"token_ttl" default:"24h"`
	AdminUsername            string        `envconfig:"admin_username" default:"admin"`
	AdminPassword            string        `envconfig:"admin_password" default:"admin123"`
	AdminName                string        `envconfig:"admin_name" default:"Administrator"`
	AdminEmail               string        `envconfig:"admin_email" default:"admin@municipality.gov.za"`
	AccessControlAllowOrigin string        `envconfig:"access_control_allow_origin"`
	LoginRateLimit           uint          `envconfig:"login_rate_limit" default:"5"`
	SeedFile                 string        `envconfig:"seed_file"`
}

// Load reads .env (outside release mode) and the WEFIXSA_* environment into a Config,
// and installs the global zap logger for the configured environment.
func Load() (*Config, error) {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load("./.env"); err != nil && !os.IsNotExist(err) {
			zap.S().Warnw("couldn't load env vars", "error", err)
		}
	}

	c := &Config{}
	if err := envconfig.Process("wefixsa", c); err != nil {
		return nil, err
	}

	logger, err := setLogger(c.Env)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	return c, nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
