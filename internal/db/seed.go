package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/config"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/password"
)

// SeedAdmin creates the bootstrap admin when no admin exists yet. It
// reports whether an account was created.
func SeedAdmin(db *gorm.DB, cfg *config.Config, hasher password.Hasher) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Name:               "Admin",
		Username:           cfg.AdminUsername,
		PasswordHash:       hash,
		Phone:              cfg.AdminPhone,
		Role:               models.RoleAdmin,
		IsActive:           true,
		ForcePasswordReset: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
