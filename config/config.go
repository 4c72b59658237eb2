package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	DB          DBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
	Kafka       KafkaConfig
	Cron        CronConfig
	Appointment AppointmentConfig
}

type AppConfig struct {
	Port         string
	Env          string
	LogLevel     string
	QueryTimeout time.Duration
}

func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	TimeZone    string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type CacheConfig struct {
	TopHospitalsTTL   time.Duration
	TopSpecialtiesTTL time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type KafkaConfig struct {
	Brokers string
	Topic   string
}

// BrokerList splits the comma separated broker setting. Empty disables publishing.
func (c KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

type CronConfig struct {
	ExpireAppointments string
	ReconcileCounts    string
}

type AppointmentConfig struct {
	ExpiryGrace time.Duration
	FineWindow  time.Duration
	FinePercent decimal.Decimal
}

var defaults = map[string]interface{}{
	"APP_PORT":                 "8080",
	"APP_ENV":                  "development",
	"APP_LOG_LEVEL":            "info",
	"APP_QUERY_TIMEOUT":        "5s",
	"DB_HOST":                  "localhost",
	"DB_PORT":                  "5432",
	"DB_SSLMODE":               "disable",
	"DB_TIMEZONE":              "UTC",
	"DB_AUTO_MIGRATE":          true,
	"REDIS_HOST":               "localhost",
	"REDIS_PORT":               "6379",
	"REDIS_DB":                 0,
	"JWT_ACCESS_EXPIRY":        "15m",
	"CACHE_TOP_TTL":            "60s",
	"CACHE_SPECIALTY_TTL":      "30s",
	"RATE_LIMIT_RPS":           20,
	"RATE_LIMIT_BURST":         40,
	"KAFKA_BROKERS":            "",
	"KAFKA_TOPIC":              "directory.events",
	"CRON_EXPIRE_APPOINTMENTS": "@every 15m",
	"CRON_RECONCILE_COUNTS":    "0 3 * * *",
	"APPOINTMENT_EXPIRY_GRACE": "2h",
	"APPOINTMENT_FINE_WINDOW":  "24h",
	"APPOINTMENT_FINE_PERCENT": "10",
}

// LoadConfig reads .env when present; environment variables always win.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	finePercent, err := decimal.NewFromString(v.GetString("APPOINTMENT_FINE_PERCENT"))
	if err != nil || finePercent.IsNegative() {
		finePercent = decimal.NewFromInt(10)
	}

	config := &Config{
		App: AppConfig{
			Port:         v.GetString("APP_PORT"),
			Env:          v.GetString("APP_ENV"),
			LogLevel:     v.GetString("APP_LOG_LEVEL"),
			QueryTimeout: durationOr(v, "APP_QUERY_TIMEOUT", 5*time.Second),
		},
		DB: DBConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			TimeZone:    v.GetString("DB_TIMEZONE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: durationOr(v, "JWT_ACCESS_EXPIRY", 15*time.Minute),
		},
		Cache: CacheConfig{
			TopHospitalsTTL:   durationOr(v, "CACHE_TOP_TTL", time.Minute),
			TopSpecialtiesTTL: durationOr(v, "CACHE_SPECIALTY_TTL", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Kafka: KafkaConfig{
			Brokers: v.GetString("KAFKA_BROKERS"),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Cron: CronConfig{
			ExpireAppointments: v.GetString("CRON_EXPIRE_APPOINTMENTS"),
			ReconcileCounts:    v.GetString("CRON_RECONCILE_COUNTS"),
		},
		Appointment: AppointmentConfig{
			ExpiryGrace: durationOr(v, "APPOINTMENT_EXPIRY_GRACE", 2*time.Hour),
			FineWindow:  durationOr(v, "APPOINTMENT_FINE_WINDOW", 24*time.Hour),
			FinePercent: finePercent,
		},
	}

	return config, nil
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
