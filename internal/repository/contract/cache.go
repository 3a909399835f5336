package contract

import (
	"context"

	"course-notes-be/internal/dto"
	"course-notes-be/internal/entity"
)

// NotesCache holds the rendered note list of one file of a series.
// Every Invalidate bumps the file's version; Set only stores records read
// under the version the caller saw before querying.
type NotesCache interface {
	Get(ctx context.Context, seriesId, userFileId int64) ([]dto.NoteRecordResponse, bool, error)
	Version(ctx context.Context, seriesId, userFileId int64) (int64, error)
	Set(ctx context.Context, seriesId, userFileId, version int64, records []dto.NoteRecordResponse) (bool, error)
	Invalidate(ctx context.Context, seriesId, userFileId int64) error
}

// UserFileCache holds user file metadata by id.
type UserFileCache interface {
	Get(userFileId int64) (*entity.UserFile, bool)
	Save(file *entity.UserFile)
	Delete(userFileId int64)
}
