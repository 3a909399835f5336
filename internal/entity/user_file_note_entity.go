package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type UserFileNote struct {
	Id          uuid.UUID
	SeriesId    int64
	UserFileId  int64
	UserId      int64
	Page        int
	Notes       *string
	Annotations json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
