package db

import (
	"dealdesk/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.LimitedPartner{},
		&models.Deal{},
		&models.Founder{},
		&models.Vote{},
		&models.DealLink{},
		&models.Channel{},
		&models.Message{},
		&models.MonthlyUpdate{},
	)
}
