package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default().ServerPort, cfg.ServerPort)
	assert.True(t, cfg.Appointments.EmployeeScopedConflicts)
	assert.False(t, cfg.Appointments.RequireService)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_driver: sqlite
server_port: "9000"
token_ttl: 2h
appointments:
  require_employee: true
  employee_scoped_conflicts: false
`), 0o600))

	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("APPOINTMENT_REJECT_PAST", "false")
	t.Setenv("LOGIN_LOCKOUT", "1m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "9100", cfg.ServerPort)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, time.Minute, cfg.LoginLockout)
	assert.True(t, cfg.Appointments.RequireEmployee)
	assert.False(t, cfg.Appointments.EmployeeScopedConflicts)
	assert.False(t, cfg.Appointments.RejectPastDates)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("LOGIN_MAX_ATTEMPTS", "many")
	_, err = Load("")
	assert.ErrorContains(t, err, "LOGIN_MAX_ATTEMPTS")
}
