package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every table this package owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&savedBookModel{},
		&bookModel{},
		&requestModel{},
		&loanModel{},
		&notificationModel{},
		&reviewModel{},
	)
}
