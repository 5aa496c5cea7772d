package models

import "time"

const (
	MonthlyUpdateStatusDraft = "draft"
	MonthlyUpdateStatusSent  = "sent"
)

// MonthlyUpdate is an investor-update email pushed out as a Lemlist campaign.
type MonthlyUpdate struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	Title   string `gorm:"type:varchar(200);not null"`
	Subject string `gorm:"type:varchar(200);not null"`
	Body    string `gorm:"type:text;not null"`

	Status string `gorm:"type:varchar(20);not null;index;default:'draft'"`

	// CampaignID is the Lemlist campaign id once the update has been sent.
	CampaignID *string    `gorm:"type:varchar(100)"`
	SentAt     *time.Time `gorm:"type:timestamptz"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (MonthlyUpdate) TableName() string {
	return "monthly_updates"
}
