package database

import (
	"gorm.io/gorm"

	"github.com/landhub/landhub/internal/models"
	"github.com/landhub/landhub/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Land{},
		&models.LandImage{},
		&models.Inquiry{},
		&models.Favorite{},
		&models.SavedSearch{},
		&models.Notification{},
	)
}

// SeedData ensures a bootstrap administrator account exists. The account is
// created with a throwaway password hash and must have its password set
// through the normal update path before it can be used.
func SeedData(db *gorm.DB) error {
	hash, err := crypto.HashPassword(randomSeedSecret())
	if err != nil {
		return err
	}

	admin := models.User{
		BaseModel: models.BaseModel{ID: "admin"},
		Username:  "admin",
		Email:     "admin@landhub.local",
		Password:  hash,
		FirstName: "LandHub",
		LastName:  "Admin",
		Role:      models.RoleAdmin,
		IsActive:  true,
	}

	return db.Where(models.User{Username: admin.Username}).
		Attrs(admin).
		FirstOrCreate(&models.User{}).Error
}
