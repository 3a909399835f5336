package implementation

import (
	"context"
	"errors"

	"course-notes-be/internal/entity"
	"course-notes-be/internal/mapper"
	"course-notes-be/internal/model"
	"course-notes-be/internal/repository/contract"
	"course-notes-be/internal/repository/specification"

	"gorm.io/gorm"
)

type UserFileNoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserFileNoteMapper
}

func NewUserFileNoteRepository(db *gorm.DB) contract.UserFileNoteRepository {
	return &UserFileNoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserFileNoteMapper(),
	}
}

func (r *UserFileNoteRepositoryImpl) Create(ctx context.Context, note *entity.UserFileNote) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserFileNoteRepositoryImpl) Update(ctx context.Context, note *entity.UserFileNote) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserFileNoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserFileNote, error) {
	var m model.UserFileNote
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserFileNoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserFileNote, error) {
	var models []*model.UserFileNote
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *UserFileNoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.UserFileNote{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
