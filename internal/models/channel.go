package models

import "time"

// Channel scopes an append-only message list. Consumed via polling.
type Channel struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`

	CreatedByLPID uint64 `gorm:"column:created_by_lp_id;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Channel) TableName() string {
	return "channels"
}
