package models

import "time"

// Founder is owned exclusively by its Deal and cascades with it.
type Founder struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	DealID uint64 `gorm:"not null;index"`

	Name        string  `gorm:"type:varchar(200);not null"`
	Title       string  `gorm:"type:varchar(100)"`
	Email       *string `gorm:"type:varchar(200)"`
	LinkedInURL *string `gorm:"type:text"`
	Bio         string  `gorm:"type:text"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Founder) TableName() string {
	return "founders"
}
