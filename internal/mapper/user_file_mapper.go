package mapper

import (
	"time"

	"course-notes-be/internal/entity"
	"course-notes-be/internal/model"

	"gorm.io/gorm"
)

type UserFileMapper struct{}

func NewUserFileMapper() *UserFileMapper {
	return &UserFileMapper{}
}

func (m *UserFileMapper) ToEntity(f *model.UserFile) *entity.UserFile {
	if f == nil {
		return nil
	}

	var deletedAt *time.Time
	if f.DeletedAt.Valid {
		t := f.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.UserFile{
		Id:          f.Id,
		SeriesId:    f.SeriesId,
		OwnerId:     f.OwnerId,
		Name:        f.Name,
		StoragePath: f.StoragePath,
		TotalPages:  f.TotalPages,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   f.DeletedAt.Valid,
	}
}

func (m *UserFileMapper) ToModel(f *entity.UserFile) *model.UserFile {
	if f == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if f.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *f.DeletedAt, Valid: true}
	} else if f.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.UserFile{
		Id:          f.Id,
		SeriesId:    f.SeriesId,
		OwnerId:     f.OwnerId,
		Name:        f.Name,
		StoragePath: f.StoragePath,
		TotalPages:  f.TotalPages,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}
