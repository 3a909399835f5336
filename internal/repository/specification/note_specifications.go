package specification

import "gorm.io/gorm"

type BySeriesID struct {
	SeriesID int64
}

func (s BySeriesID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("series_id = ?", s.SeriesID)
}

type ByUserFileID struct {
	UserFileID int64
}

func (s ByUserFileID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_file_id = ?", s.UserFileID)
}

type NoteOwnedByUser struct {
	UserID int64
}

func (s NoteOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_file_notes.user_id = ?", s.UserID)
}

type ByPage struct {
	Page int
}

func (s ByPage) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("page = ?", s.Page)
}

// NoteSlot selects the single row a user keeps for one page of a file.
func NoteSlot(userFileID, userID int64, page int) []Specification {
	return []Specification{
		ByUserFileID{UserFileID: userFileID},
		NoteOwnedByUser{UserID: userID},
		ByPage{Page: page},
	}
}
