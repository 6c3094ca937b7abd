package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, block length, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Schedule  ScheduleConfig
	Lock      LockConfig
	Redis     RedisConfig
	Events    EventsConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
	Mode string `envconfig:"GIN_MODE" default:"debug"`
}

type DBConfig struct {
	Host          string `envconfig:"DB_HOST" default:"localhost"`
	Port          string `envconfig:"DB_PORT" default:"5432"`
	User          string `envconfig:"DB_USER" required:"true"`
	Password      string `envconfig:"DB_PASSWORD" required:"true"`
	DBName        string `envconfig:"DB_NAME" required:"true"`
	SSLMode       string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone      string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
	MigrationsDir string `envconfig:"DB_MIGRATIONS_DIR" default:"migrations"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone   string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

// ScheduleConfig holds the clinic calendar rules. Validation lives in the schedule domain.
type ScheduleConfig struct {
	BlockMinutes        int      `envconfig:"SCHEDULE_BLOCK_MINUTES" default:"30"`
	ClosedWeekdays      []string `envconfig:"SCHEDULE_CLOSED_WEEKDAYS" default:"saturday,sunday"`
	Rounding            string   `envconfig:"SCHEDULE_ROUNDING" default:"floor"`
	CancelledFreesSlots bool     `envconfig:"SCHEDULE_CANCELLED_FREES_SLOTS" default:"false"`
	TimeZone            string   `envconfig:"SCHEDULE_TIMEZONE" default:"Asia/Tokyo"`
	DayOpen             string   `envconfig:"SCHEDULE_DAY_OPEN" default:"09:00"`
	DayClose            string   `envconfig:"SCHEDULE_DAY_CLOSE" default:"17:00"`
}

type LockConfig struct {
	Backend string `envconfig:"SCHEDULE_LOCK_BACKEND" default:"postgres"`
}

type RedisConfig struct {
	Addr    string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	LockTTL time.Duration `envconfig:"REDIS_LOCK_TTL" default:"5s"`
}

type EventsConfig struct {
	AMQPURL      string        `envconfig:"AMQP_URL"`
	Exchange     string        `envconfig:"AMQP_EXCHANGE" default:"clinic.bookings"`
	PollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	BatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
}

type RateLimitConfig struct {
	RPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"20"`
	Burst int     `envconfig:"RATE_LIMIT_BURST" default:"40"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c LockConfig) UsesRedis() bool {
	return strings.EqualFold(c.Backend, "redis")
}

func (c EventsConfig) Enabled() bool {
	return c.AMQPURL != ""
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	switch strings.ToLower(cfg.Lock.Backend) {
	case "postgres", "redis":
	default:
		return Config{}, fmt.Errorf("unsupported SCHEDULE_LOCK_BACKEND %q", cfg.Lock.Backend)
	}
	return cfg, nil
}

// MigrateConfig is the subset the migration tool needs; it skips server-only required settings
type MigrateConfig struct {
	DB       DBConfig
	Schedule ScheduleConfig
}

func LoadMigrateConfig() (MigrateConfig, error) {
	var cfg MigrateConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return MigrateConfig{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
			Mode: "test",
		},
		DB: DBConfig{
			Host:          "localhost",
			Port:          "15433", // Test DB port
			User:          "test",
			Password:      "test",
			DBName:        "test_db",
			SSLMode:       "disable",
			TimeZone:      "Asia/Tokyo",
			MigrationsDir: "migrations",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "Asia/Tokyo",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: time.Hour,
		},
		Schedule: ScheduleConfig{
			BlockMinutes:   30,
			ClosedWeekdays: []string{"saturday", "sunday"},
			Rounding:       "floor",
			TimeZone:       "Asia/Tokyo",
			DayOpen:        "09:00",
			DayClose:       "17:00",
		},
		Lock: LockConfig{Backend: "postgres"},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			LockTTL: 5 * time.Second,
		},
		Events: EventsConfig{
			Exchange:     "clinic.bookings",
			PollInterval: 2 * time.Second,
			BatchSize:    50,
		},
		RateLimit: RateLimitConfig{RPS: 1000, Burst: 1000},
	}
}
