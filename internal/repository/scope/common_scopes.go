package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// OrderByPageThenUpdated is the read order of note rows: page, then last write.
func OrderByPageThenUpdated(db *gorm.DB) *gorm.DB {
	return db.Order("page ASC").Order("updated_at ASC")
}
