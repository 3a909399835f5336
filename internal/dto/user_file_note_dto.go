package dto

import (
	"encoding/json"
	"time"
)

// NoteRecordResponse is one stored row as returned to viewers of a file.
type NoteRecordResponse struct {
	UserId      int64           `json:"user_id"`
	Page        int             `json:"page"`
	Notes       *string         `json:"notes"`
	Annotations json.RawMessage `json:"annotations"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// SaveNotesRequest upserts the caller's row for one page. Only the fields
// whose update flag is set are written.
type SaveNotesRequest struct {
	UserFileId        int64           `json:"user_file_id" validate:"required,gt=0"`
	SeriesId          int64           `json:"series_id" validate:"required,gt=0"`
	UpdateNotes       bool            `json:"update_notes"`
	Notes             *string         `json:"notes"`
	UpdateAnnotations bool            `json:"update_annotations"`
	Annotations       json.RawMessage `json:"annotations"`
	Page              int             `json:"page" validate:"gte=1"`
}

// AnnotationsOrNil treats an absent or JSON null payload as no drawing.
func (r *SaveNotesRequest) AnnotationsOrNil() json.RawMessage {
	if len(r.Annotations) == 0 || string(r.Annotations) == "null" {
		return nil
	}
	return r.Annotations
}

// NotesWrittenMessage is published after a row was saved.
type NotesWrittenMessage struct {
	SeriesId   int64 `json:"series_id"`
	UserFileId int64 `json:"user_file_id"`
	UserId     int64 `json:"user_id"`
	Page       int   `json:"page"`
}
