package model

import (
	"time"

	"gorm.io/datatypes"
)

type VerdictRecord struct {
	Id              uint           `gorm:"primaryKey;autoIncrement"`
	SessionId       string         `gorm:"type:varchar(64);not null;index"`
	ClaimText       string         `gorm:"type:text;not null"`
	OverallVerdict  string         `gorm:"type:varchar(32);not null"`
	ConfidenceScore float64        `gorm:"not null"`
	Reasoning       string         `gorm:"type:text"`
	Breakdown       datatypes.JSON `gorm:"type:jsonb"`
	Claims          datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
}

func (VerdictRecord) TableName() string {
	return "verdict_records"
}
