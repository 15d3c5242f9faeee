package model

import (
	"time"

	"gorm.io/datatypes"
)

// BillingEvent records every processed webhook delivery, keyed by the
// provider's event id. Second deliveries of the same event are dropped.
type BillingEvent struct {
	Id          string         `gorm:"type:varchar(255);primaryKey"`
	Type        string         `gorm:"type:varchar(100);not null;index"`
	Payload     datatypes.JSON `gorm:"type:jsonb"`
	ProcessedAt time.Time      `gorm:"autoCreateTime"`
}

func (BillingEvent) TableName() string {
	return "billing_events"
}
