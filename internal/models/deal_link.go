package models

import "time"

// DealLink is a reference link an LP attached to a deal alongside a vote.
// A resubmission replaces all of that LP's links for the deal.
type DealLink struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	DealID uint64 `gorm:"not null;index:idx_deal_links_deal_lp"`
	LPID   uint64 `gorm:"column:lp_id;not null;index:idx_deal_links_deal_lp"`

	Title string `gorm:"type:varchar(200);not null"`
	URL   string `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (DealLink) TableName() string {
	return "deal_links"
}
