package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DATABASE", "rental")
	t.Setenv("DB_USERNAME", "rental")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "Africa/Kinshasa", c.Timezone)
	assert.Equal(t, "0.0.0.0:8080", c.Addr())
	assert.Contains(t, c.DSN(), "dbname=rental")
	assert.Contains(t, c.DSN(), "sslmode=disable")

	eps, err := c.Epsilon()
	require.NoError(t, err)
	assert.Equal(t, "0.01", eps.String())
}

func TestLoad_RejectsBadTimezone(t *testing.T) {
	t.Setenv("DB_DATABASE", "rental")
	t.Setenv("DB_USERNAME", "rental")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RequiresDatabase(t *testing.T) {
	unsetenv(t, "DB_DATABASE")
	unsetenv(t, "DB_USERNAME")

	_, err := Load()
	assert.Error(t, err)
}

func unsetenv(t *testing.T, key string) {
	t.Helper()
	if prev, ok := os.LookupEnv(key); ok {
		t.Cleanup(func() { os.Setenv(key, prev) })
	}
	os.Unsetenv(key)
}
