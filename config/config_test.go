package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5*time.Second, cfg.App.QueryTimeout)
	assert.Equal(t, time.Minute, cfg.Cache.TopHospitalsTTL)
	assert.Equal(t, 30*time.Second, cfg.Cache.TopSpecialtiesTTL)
	assert.Equal(t, 20.0, cfg.RateLimit.RPS)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
	assert.Equal(t, "directory.events", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.BrokerList())
	assert.Equal(t, "@every 15m", cfg.Cron.ExpireAppointments)
	assert.True(t, decimal.NewFromInt(10).Equal(cfg.Appointment.FinePercent))
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_QUERY_TIMEOUT", "250ms")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("APPOINTMENT_FINE_PERCENT", "12.5")
	t.Setenv("CACHE_TOP_TTL", "not-a-duration")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.App.QueryTimeout)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.BrokerList())
	assert.Equal(t, "12.5", cfg.Appointment.FinePercent.String())
	assert.Equal(t, time.Minute, cfg.Cache.TopHospitalsTTL)
}
