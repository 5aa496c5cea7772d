package models

import "time"

const (
	PartnerTypeGeneral = "general_partner"
	PartnerTypeVenture = "venture_partner"
	PartnerTypeLimited = "limited_partner"
)

// LimitedPartner is an investor/stakeholder record. The core consumes it
// read-only to resolve display names and the permission tier.
type LimitedPartner struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"type:varchar(200);not null"`
	Email string `gorm:"type:varchar(200);not null;uniqueIndex"`

	PartnerType string  `gorm:"type:varchar(30);not null;index;default:'limited_partner'"`
	AvatarURL   *string `gorm:"type:text"`
	Active      bool    `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (LimitedPartner) TableName() string {
	return "limited_partners"
}

// CanEditDeals reports whether this partner tier may mutate deal records.
func (lp LimitedPartner) CanEditDeals() bool {
	return lp.PartnerType == PartnerTypeGeneral || lp.PartnerType == PartnerTypeVenture
}
