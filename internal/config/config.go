package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		// TrustProxy: el server corre detrás de un proxy que setea X-Forwarded-For.
		TrustProxy bool `yaml:"trust_proxy"`
	} `yaml:"server"`

	Storage struct {
		Driver   string `yaml:"driver"` // memory | postgres
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns int `yaml:"max_open_conns"`
			MaxIdleConns int `yaml:"max_idle_conns"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		// TTL del snapshot público de grupo activo
		SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
	} `yaml:"cache"`

	Session struct {
		// HMAC-SHA256, al menos 32 bytes
		SigningSecret string        `yaml:"signing_secret"`
		Issuer        string        `yaml:"issuer"`
		TTL           time.Duration `yaml:"ttl"`
	} `yaml:"session"`

	Rate struct {
		Backend string `yaml:"backend"` // memory | redis

		Login struct {
			Limit  int           `yaml:"limit"`
			Window time.Duration `yaml:"window"`
		} `yaml:"login"`

		// throttle global por IP (token bucket)
		API struct {
			Enabled bool    `yaml:"enabled"`
			RPS     float64 `yaml:"rps"`
			Burst   int     `yaml:"burst"`
		} `yaml:"api"`
	} `yaml:"rate"`

	Propagation struct {
		PollInterval time.Duration `yaml:"poll_interval"`
		Bus          string        `yaml:"bus"` // memory | redis
	} `yaml:"propagation"`

	Security struct {
		PasswordHash   string `yaml:"password_hash"` // bcrypt | argon2id
		BcryptCost     int    `yaml:"bcrypt_cost"`
		PasswordPolicy struct {
			MinLength     int  `yaml:"min_length"`
			RequireUpper  bool `yaml:"require_upper"`
			RequireLower  bool `yaml:"require_lower"`
			RequireDigit  bool `yaml:"require_digit"`
			RequireSymbol bool `yaml:"require_symbol"`
		} `yaml:"password_policy"`
	} `yaml:"security"`

	Log struct {
		Env   string `yaml:"env"`   // dev | prod
		Level string `yaml:"level"` // debug | info | warn | error
	} `yaml:"log"`

	Flags struct {
		Migrate bool `yaml:"migrate"`
	} `yaml:"flags"`
}

// Load lee path (si no es vacío), aplica defaults, overrides por env y valida.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyDefaults()
	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "tasktrack"
	}
	if c.Cache.SnapshotTTL == 0 {
		c.Cache.SnapshotTTL = time.Second
	}
	if c.Session.Issuer == "" {
		c.Session.Issuer = "tasktrack"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 24 * time.Hour
	}
	if c.Rate.Backend == "" {
		c.Rate.Backend = "memory"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 5
	}
	if c.Rate.Login.Window == 0 {
		c.Rate.Login.Window = 15 * time.Minute
	}
	if c.Rate.API.RPS == 0 {
		c.Rate.API.RPS = 20
	}
	if c.Rate.API.Burst == 0 {
		c.Rate.API.Burst = 40
	}
	if c.Propagation.PollInterval == 0 {
		c.Propagation.PollInterval = 4 * time.Second
	}
	if c.Propagation.Bus == "" {
		c.Propagation.Bus = "memory"
	}
	if c.Security.PasswordHash == "" {
		c.Security.PasswordHash = "bcrypt"
	}
	if c.Security.PasswordPolicy.MinLength == 0 {
		c.Security.PasswordPolicy.MinLength = 6
	}
	if c.Log.Env == "" {
		c.Log.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvFloat(key string) (float64, bool) {
	if s, ok := getEnvStr(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvBool("SERVER_TRUST_PROXY"); ok {
		c.Server.TrustProxy = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_IDLE_CONNS"); ok {
		c.Storage.Postgres.MaxIdleConns = v
	}

	// CACHE / REDIS
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// SESSION
	if v, ok := getEnvStr("SESSION_SIGNING_SECRET"); ok {
		c.Session.SigningSecret = v
	}
	if v, ok := getEnvStr("SESSION_ISSUER"); ok {
		c.Session.Issuer = v
	}
	if v, ok := getEnvDur("SESSION_TTL"); ok {
		c.Session.TTL = v
	}

	// RATE
	if v, ok := getEnvStr("RATE_BACKEND"); ok {
		c.Rate.Backend = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvDur("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}
	if v, ok := getEnvBool("RATE_API_ENABLED"); ok {
		c.Rate.API.Enabled = v
	}
	if v, ok := getEnvFloat("RATE_API_RPS"); ok {
		c.Rate.API.RPS = v
	}
	if v, ok := getEnvInt("RATE_API_BURST"); ok {
		c.Rate.API.Burst = v
	}

	// PROPAGATION
	if v, ok := getEnvDur("PROPAGATION_POLL_INTERVAL"); ok {
		c.Propagation.PollInterval = v
	}
	if v, ok := getEnvStr("PROPAGATION_BUS"); ok {
		c.Propagation.Bus = v
	}

	// SECURITY
	if v, ok := getEnvStr("SECURITY_PASSWORD_HASH"); ok {
		c.Security.PasswordHash = v
	}
	if v, ok := getEnvInt("SECURITY_BCRYPT_COST"); ok {
		c.Security.BcryptCost = v
	}
	if v, ok := getEnvInt("SECURITY_PASSWORD_MIN_LENGTH"); ok {
		c.Security.PasswordPolicy.MinLength = v
	}

	// LOG
	if v, ok := getEnvStr("LOG_ENV"); ok {
		c.Log.Env = strings.ToLower(v)
	} else if c.App.Env == "prod" {
		c.Log.Env = "prod"
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}

	if v, ok := getEnvBool("FLAGS_MIGRATE"); ok {
		c.Flags.Migrate = v
	}
}

// Validate verifica valores críticos.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Session.SigningSecret) < 32 {
		errs = append(errs, errors.New("session.signing_secret must be at least 32 bytes"))
	}
	if c.Propagation.PollInterval <= 0 || c.Propagation.PollInterval > 5*time.Second {
		errs = append(errs, fmt.Errorf("propagation.poll_interval must be in (0, 5s], got %s", c.Propagation.PollInterval))
	}
	if c.Rate.Login.Limit <= 0 || c.Rate.Login.Window <= 0 {
		errs = append(errs, errors.New("rate.login limit and window must be positive"))
	}
	switch c.Storage.Driver {
	case "memory", "mem", "postgres", "pg", "postgresql":
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q not supported", c.Storage.Driver))
	}
	if isPostgres(c.Storage.Driver) && strings.TrimSpace(c.Storage.DSN) == "" {
		errs = append(errs, errors.New("storage.dsn is required for postgres"))
	}
	if c.UsesRedis() && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		errs = append(errs, errors.New("cache.redis.addr is required when any backend is redis"))
	}
	return errors.Join(errs...)
}

// UsesRedis reporta si algún componente necesita la conexión Redis.
func (c *Config) UsesRedis() bool {
	return c.Cache.Kind == "redis" || c.Rate.Backend == "redis" || c.Propagation.Bus == "redis"
}

func isPostgres(driver string) bool {
	switch driver {
	case "postgres", "pg", "postgresql":
		return true
	}
	return false
}
