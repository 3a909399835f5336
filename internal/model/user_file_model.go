package model

import (
	"time"

	"gorm.io/gorm"
)

type UserFile struct {
	Id          int64          `gorm:"primaryKey;autoIncrement"`
	SeriesId    int64          `gorm:"not null;index"`
	OwnerId     int64          `gorm:"not null;index"`
	Name        string         `gorm:"type:varchar(255);not null"`
	StoragePath string         `gorm:"type:varchar(512);not null"`
	TotalPages  int            `gorm:"not null;default:0"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (UserFile) TableName() string {
	return "user_files"
}
