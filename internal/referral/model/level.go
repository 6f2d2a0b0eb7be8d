package model

import "github.com/shopspring/decimal"

// LevelDefinition is the price and promotion requirement of a single level.
type LevelDefinition struct {
	LevelNumber        int             `gorm:"primaryKey;autoIncrement:false"`
	Price              decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	MinDirectReferrals int             `gorm:"not null;default:0"`
	MinAncestorDepth   int             `gorm:"not null;default:0"`
}

func (LevelDefinition) TableName() string {
	return "level_definitions"
}
