package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("LDAP_URL", "ldaps://dc01.example.com:636")
	t.Setenv("LDAP_POOL_SIZE", "8")
	t.Setenv("SYNC_RECURSIVE", "false")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "ldaps://dc01.example.com:636", cfg.LDAP.ServerURL)
	assert.Equal(t, 8, cfg.LDAP.PoolSize)
	assert.False(t, cfg.Sync.Recursive)
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"LDAP_GROUP_FILTER", "LDAP_MEMBER_ATTR", "SYNC_PROTECT_EMPTY", "FISCAL_START_MONTH", "MINIO_ENDPOINT"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "(&(objectClass=group)(cn=%s))", cfg.LDAP.GroupFilter)
	assert.Equal(t, "member", cfg.LDAP.MemberAttr)
	assert.True(t, cfg.Sync.ProtectEmpty)
	assert.Equal(t, 1, cfg.FiscalStartMonth)
	assert.False(t, cfg.MinIO.Enabled())
	assert.Equal(t, "reports", cfg.MinIO.ReportPrefix)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
