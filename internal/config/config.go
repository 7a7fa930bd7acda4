package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
)

// Cache drivers.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Membership sources decide where member eligibility is checked.
const (
	MembershipFromUsers    = "users"
	MembershipFromProjects = "projects"
)

// Config is read once at startup and passed down explicitly.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"togglenest.db"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBHost      string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort      string `env:"DB_PORT" envDefault:"3306"`
	DBName      string `env:"DB_NAME" envDefault:"togglenest"`
	MongoURI    string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017/togglenest"`

	CacheDriver string        `env:"CACHE_DRIVER" envDefault:"memory"`
	RedisURL    string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	CacheTTL    time.Duration `env:"CACHE_TTL" envDefault:"30s"`

	NATSURL     string `env:"NATS_URL"`
	NATSSubject string `env:"NATS_SUBJECT" envDefault:"togglenest.activity"`

	JWTSecret string `env:"JWT_SECRET"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	MembershipSource  string `env:"MEMBERSHIP_SOURCE" envDefault:"users"`
	StrictProjectRefs bool   `env:"STRICT_PROJECT_REFS" envDefault:"false"`
}

// Load reads env files and then the process environment. With no files
// named, an optional .env in the working directory is used.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown enum values.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverSQLite, DriverMySQL, DriverMongo:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.CacheDriver {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver)
	}
	switch c.MembershipSource {
	case MembershipFromUsers, MembershipFromProjects:
	default:
		return fmt.Errorf("unknown MEMBERSHIP_SOURCE %q", c.MembershipSource)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return errors.New("rate limit values must not be negative")
	}
	return nil
}

// MySQLDSN builds the go-sql-driver DSN from the DB_* variables.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
