package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported values for db.driver and session.backend.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	SessionBackendSQL   = "sql"
	SessionBackendRedis = "redis"

	envPrefix = "EXPENSES"
)

// Config is the whole runtime configuration, read once at startup.
type Config struct {
	Port           string          `mapstructure:"port"`
	TrustedProxies []string        `mapstructure:"trusted_proxies"` // IPs/CIDRs allowed to set X-Forwarded-For
	Log            LogConfig       `mapstructure:"log"`
	DB             DBConfig        `mapstructure:"db"`
	Session        SessionConfig   `mapstructure:"session"`
	Redis          RedisConfig     `mapstructure:"redis"`
	JWT            JWTConfig       `mapstructure:"jwt"`
	RateLimit      RateLimitConfig `mapstructure:"ratelimit"`
	Categories     []string        `mapstructure:"categories"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console | json
}

// DBConfig selects the store. Path is used by sqlite; host/port/name/user/password by mysql.
type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type SessionConfig struct {
	Backend      string        `mapstructure:"backend"`
	TTL          time.Duration `mapstructure:"ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type JWTConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig bounds credential submissions per client IP.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("trusted_proxies", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "expenses.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.name", "ExpenseTracker")
	v.SetDefault("db.user", "root")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("session.backend", SessionBackendSQL)
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("session.secure_cookie", false)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "expenses:session:")

	v.SetDefault("jwt.signing_key", "")
	v.SetDefault("jwt.ttl", time.Hour)

	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 5)

	v.SetDefault("categories", []string{"Groceries", "Transport", "Utilities", "Entertainment", "Health", "Other"})
}

// Load reads <dir>/config.yml when present and overlays EXPENSES_* environment variables.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Port) == "" {
		problems = append(problems, "port must not be empty")
	}
	for _, p := range c.TrustedProxies {
		if !validProxy(p) {
			problems = append(problems, fmt.Sprintf("invalid trusted_proxies entry %q (want IP or CIDR)", p))
		}
	}

	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			problems = append(problems, "db.path is required for the sqlite driver")
		}
	case DriverMySQL:
		if c.DB.Host == "" || c.DB.Name == "" || c.DB.User == "" {
			problems = append(problems, "db.host, db.name and db.user are required for the mysql driver")
		}
		if c.DB.Port < 1 || c.DB.Port > 65535 {
			problems = append(problems, fmt.Sprintf("invalid db.port %d", c.DB.Port))
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown db.driver %q (want %s or %s)", c.DB.Driver, DriverSQLite, DriverMySQL))
	}

	switch c.Session.Backend {
	case SessionBackendSQL:
	case SessionBackendRedis:
		if c.Redis.Addr == "" {
			problems = append(problems, "redis.addr is required for the redis session backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown session.backend %q (want %s or %s)", c.Session.Backend, SessionBackendSQL, SessionBackendRedis))
	}
	if c.Session.TTL < time.Minute {
		problems = append(problems, fmt.Sprintf("session.ttl %v is too short (min 1m)", c.Session.TTL))
	}
	if c.Session.CookieName == "" {
		problems = append(problems, "session.cookie_name must not be empty")
	}

	if len(c.JWT.SigningKey) < 16 {
		problems = append(problems, "jwt.signing_key must be at least 16 characters (set EXPENSES_JWT_SIGNING_KEY)")
	}
	if c.JWT.TTL <= 0 {
		problems = append(problems, "jwt.ttl must be positive")
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1 {
		problems = append(problems, "ratelimit.rps must be > 0 and ratelimit.burst >= 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func validProxy(p string) bool {
	if strings.Contains(p, "/") {
		_, _, err := net.ParseCIDR(p)
		return err == nil
	}
	return net.ParseIP(p) != nil
}
