package entity

import (
	"time"

	"github.com/google/uuid"
)

type DataItem struct {
	Id         uuid.UUID
	UserId     int64
	Key        string
	Id1        string
	Value1     string
	Id2        string
	Value2     string
	RecordedAt time.Time
}
