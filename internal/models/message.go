package models

import "time"

type Message struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	ChannelID uint64 `gorm:"not null;index"`
	LPID      uint64 `gorm:"column:lp_id;not null;index"`

	Body string `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (Message) TableName() string {
	return "messages"
}
