package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-manager/internal/config"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/password"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.DBDriver = "oracle"

	_, err := Open(cfg)
	assert.Error(t, err)
}

func TestSeedAdminOnce(t *testing.T) {
	cfg := config.Default()
	cfg.DBDriver = DriverSQLite
	cfg.DBUrl = ":memory:"

	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	hasher := &password.BcryptHasher{Cost: 4}

	created, err := SeedAdmin(db, cfg, hasher)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = SeedAdmin(db, cfg, hasher)
	require.NoError(t, err)
	assert.False(t, created)

	var admin models.User
	require.NoError(t, db.Where("username = ?", cfg.AdminUsername).First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.True(t, admin.ForcePasswordReset)
	assert.NoError(t, hasher.Compare(admin.PasswordHash, cfg.AdminPassword))
}
