package specification

import "gorm.io/gorm"

type UserFileOwnedBy struct {
	OwnerID int64
}

func (s UserFileOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_files.owner_id = ?", s.OwnerID)
}

type ByDataItemKey struct {
	Key string
}

func (s ByDataItemKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("key = ?", s.Key)
}
