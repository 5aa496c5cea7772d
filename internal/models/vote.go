package models

import (
	"time"

	"gorm.io/datatypes"
)

// Vote is one LP's assessment of one deal. At most one row exists per
// (deal_id, lp_id); resubmission overwrites the prior row.
type Vote struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	DealID uint64 `gorm:"not null;uniqueIndex:idx_votes_deal_lp;index"`
	LPID   uint64 `gorm:"column:lp_id;not null;uniqueIndex:idx_votes_deal_lp;index"`

	// Exactly one of ConvictionLevel (1..4) / ReviewStatus ("to_review")
	// is set on a completed vote.
	ConvictionLevel *int    `gorm:"type:smallint"`
	ReviewStatus    *string `gorm:"type:varchar(20)"`

	// StrongNo is independent of ConvictionLevel and contributes
	// negatively to the net score.
	StrongNo bool `gorm:"not null;default:false"`

	Comments        string `gorm:"type:text"`
	AdditionalNotes string `gorm:"type:text"`

	// FounderNotes maps founder id -> note.
	FounderNotes datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Vote) TableName() string {
	return "votes"
}
