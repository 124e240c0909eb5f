package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, time.Second, cfg.Gateway.Delay)
	assert.Equal(t, 0.7, cfg.Gateway.ApprovalRate)
	assert.True(t, cfg.Payments.OwnerScopedDelete)
	assert.Equal(t, "payment.notifications", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("GATEWAY_DELAY", "250ms")
	t.Setenv("GATEWAY_APPROVAL_RATE", "0.5")
	t.Setenv("PAYMENTS_OWNER_SCOPED_DELETE", "false")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Gateway.Delay)
	assert.Equal(t, 0.5, cfg.Gateway.ApprovalRate)
	assert.False(t, cfg.Payments.OwnerScopedDelete)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("APP_MODE", "staging")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("APP_MODE", "dev")
	t.Setenv("DB_DRIVER", "oracle")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("GATEWAY_APPROVAL_RATE", "1.5")
	_, err = Load()
	assert.Error(t, err)
}

func TestProdRequiresSecret(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("PROD_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}
