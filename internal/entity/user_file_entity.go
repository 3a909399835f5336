package entity

import "time"

type UserFile struct {
	Id          int64
	SeriesId    int64
	OwnerId     int64
	Name        string
	StoragePath string
	TotalPages  int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
