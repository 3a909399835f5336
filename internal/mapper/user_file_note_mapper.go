package mapper

import (
	"encoding/json"
	"time"

	"course-notes-be/internal/entity"
	"course-notes-be/internal/model"

	"gorm.io/datatypes"
)

type UserFileNoteMapper struct{}

func NewUserFileNoteMapper() *UserFileNoteMapper {
	return &UserFileNoteMapper{}
}

func (m *UserFileNoteMapper) ToEntity(n *model.UserFileNote) *entity.UserFileNote {
	if n == nil {
		return nil
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	var annotations json.RawMessage
	if len(n.Annotations) > 0 {
		annotations = append(json.RawMessage(nil), n.Annotations...)
	}

	return &entity.UserFileNote{
		Id:          n.Id,
		SeriesId:    n.SeriesId,
		UserFileId:  n.UserFileId,
		UserId:      n.UserId,
		Page:        n.Page,
		Notes:       n.Notes,
		Annotations: annotations,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *UserFileNoteMapper) ToModel(n *entity.UserFileNote) *model.UserFileNote {
	if n == nil {
		return nil
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	var annotations datatypes.JSON
	if len(n.Annotations) > 0 {
		annotations = datatypes.JSON(append([]byte(nil), n.Annotations...))
	}

	return &model.UserFileNote{
		Id:          n.Id,
		SeriesId:    n.SeriesId,
		UserFileId:  n.UserFileId,
		UserId:      n.UserId,
		Page:        n.Page,
		Notes:       n.Notes,
		Annotations: annotations,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *UserFileNoteMapper) ToEntities(notes []*model.UserFileNote) []*entity.UserFileNote {
	entities := make([]*entity.UserFileNote, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
