package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Reporting  ReportingConfig
	Attendance AttendanceConfig
	Billing    BillingConfig
	Exams      ExamsConfig
	AIAssist   AIAssistConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ReportingConfig fixes a single reporting calendar per organization.
// Every day/week/month bucket is computed in Timezone with weeks starting
// on WeekStartDay.
type ReportingConfig struct {
	Timezone     string
	WeekStartDay string
}

// AttendanceConfig tunes attendance aggregation behaviour.
type AttendanceConfig struct {
	CacheTTL           time.Duration
	DefaultWindowDays  int
	MaxWindowDays      int
	SectionCompletable bool
}

// BillingConfig governs billing summary caching.
type BillingConfig struct {
	CacheTTL time.Duration
}

// ExamsConfig bounds bulk exam creation.
type ExamsConfig struct {
	MaxBatchSize int
}

// AIAssistConfig holds the optional generative-text credential. The local
// conflict detector remains the system of record; this path is best-effort.
type AIAssistConfig struct {
	Enabled bool
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Reporting = ReportingConfig{
		Timezone:     v.GetString("REPORTING_TIMEZONE"),
		WeekStartDay: v.GetString("REPORTING_WEEK_START"),
	}

	cfg.Attendance = AttendanceConfig{
		CacheTTL:          parseDuration(v.GetString("ATTENDANCE_CACHE_TTL"), 5*time.Minute),
		DefaultWindowDays: v.GetInt("ATTENDANCE_DEFAULT_WINDOW_DAYS"),
		MaxWindowDays:     v.GetInt("ATTENDANCE_MAX_WINDOW_DAYS"),
	}

	cfg.Billing = BillingConfig{
		CacheTTL: parseDuration(v.GetString("BILLING_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Exams = ExamsConfig{
		MaxBatchSize: v.GetInt("EXAMS_MAX_BATCH_SIZE"),
	}

	cfg.AIAssist = AIAssistConfig{
		Enabled: v.GetBool("AI_ASSIST_ENABLED"),
		APIKey:  v.GetString("AI_ASSIST_API_KEY"),
		BaseURL: v.GetString("AI_ASSIST_BASE_URL"),
		Model:   v.GetString("AI_ASSIST_MODEL"),
		Timeout: parseDuration(v.GetString("AI_ASSIST_TIMEOUT"), 10*time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sis_core")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("REPORTING_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("REPORTING_WEEK_START", "SUNDAY")

	v.SetDefault("ATTENDANCE_CACHE_TTL", "5m")
	v.SetDefault("ATTENDANCE_DEFAULT_WINDOW_DAYS", 30)
	v.SetDefault("ATTENDANCE_MAX_WINDOW_DAYS", 366)

	v.SetDefault("BILLING_CACHE_TTL", "10m")

	v.SetDefault("EXAMS_MAX_BATCH_SIZE", 50)

	v.SetDefault("AI_ASSIST_ENABLED", false)
	v.SetDefault("AI_ASSIST_API_KEY", "")
	v.SetDefault("AI_ASSIST_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("AI_ASSIST_MODEL", "gpt-4o-mini")
	v.SetDefault("AI_ASSIST_TIMEOUT", "10s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
