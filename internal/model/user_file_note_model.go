package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserFileNote is one user's note and drawing for one page of a user file.
type UserFileNote struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SeriesId    int64          `gorm:"not null;index:idx_user_file_notes_series_file,priority:1"`
	UserFileId  int64          `gorm:"not null;index:idx_user_file_notes_series_file,priority:2;uniqueIndex:idx_user_file_notes_owner_page,priority:1"`
	UserId      int64          `gorm:"not null;uniqueIndex:idx_user_file_notes_owner_page,priority:2"`
	Page        int            `gorm:"not null;uniqueIndex:idx_user_file_notes_owner_page,priority:3"`
	Notes       *string        `gorm:"type:text"`
	Annotations datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (UserFileNote) TableName() string {
	return "user_file_notes"
}
