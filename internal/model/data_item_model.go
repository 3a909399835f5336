package model

import (
	"time"

	"github.com/google/uuid"
)

// DataItemRecord is a usage analytics row fed by the telemetry worker.
type DataItemRecord struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     int64     `gorm:"not null;index"`
	Key        string    `gorm:"type:varchar(100);not null;index"`
	Id1        string    `gorm:"type:varchar(100)"`
	Value1     string    `gorm:"type:varchar(255)"`
	Id2        string    `gorm:"type:varchar(100)"`
	Value2     string    `gorm:"type:varchar(255)"`
	RecordedAt time.Time `gorm:"not null;index"`
}

func (DataItemRecord) TableName() string {
	return "data_item_records"
}
