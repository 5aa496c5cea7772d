package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deal is a candidate or closed investment opportunity moving through the pipeline.
type Deal struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	CompanyName string `gorm:"type:varchar(200);not null;index"`
	Description string `gorm:"type:text"`
	Industry    string `gorm:"type:varchar(100);index"`
	Round       string `gorm:"type:varchar(50)"`

	// Money-like values stored as numeric to avoid float errors.
	DealSize        decimal.Decimal  `gorm:"type:numeric(30,2);not null;default:0"`
	Valuation       *decimal.Decimal `gorm:"type:numeric(30,2)"`
	RaisingAmount   *decimal.Decimal `gorm:"type:numeric(30,2)"`
	ConfirmedAmount decimal.Decimal  `gorm:"type:numeric(30,2);not null;default:0"`

	WebsiteURL   *string `gorm:"type:text"`
	PitchDeckURL *string `gorm:"type:text"`
	DemoURL      *string `gorm:"type:text"`
	ContractURL  *string `gorm:"type:text"`

	// Stage is always a member of the pipeline enum (internal/deal).
	Stage string `gorm:"type:varchar(40);not null;index;default:'sourcing'"`

	SurveyDeadline *time.Time `gorm:"type:date"`
	CloseDate      *time.Time `gorm:"type:date"`

	// Stamped the first time the matching stage is entered; never overwritten.
	SourcingMeetingBookedAt *time.Time `gorm:"type:timestamptz"`
	PartnerReviewStartedAt  *time.Time `gorm:"type:timestamptz"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Deal) TableName() string {
	return "deals"
}
