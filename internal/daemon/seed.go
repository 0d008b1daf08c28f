package daemon

import (
	"gorm.io/gorm"

	"github.com/coursemark/coursemark/internal/config"
	"github.com/coursemark/coursemark/internal/db/models"
)

func seed(_ *config.Config, db *gorm.DB) {
	// Seed initial data if user table is empty

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count == 0 {
		// Create default admin user
		// change the password after the first login

		db.Create(
			&models.User{
				Username: "admin",
				Password: models.HashPassword("changeme"),
				Active:   true,
				Role:     models.RoleAdmin,
			},
		)
	}
}
