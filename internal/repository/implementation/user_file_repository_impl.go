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

type UserFileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserFileMapper
}

func NewUserFileRepository(db *gorm.DB) contract.UserFileRepository {
	return &UserFileRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserFileMapper(),
	}
}

func (r *UserFileRepositoryImpl) Create(ctx context.Context, file *entity.UserFile) error {
	m := r.mapper.ToModel(file)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserFileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserFile, error) {
	var m model.UserFile
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserFileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserFile, error) {
	var models []*model.UserFile
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.UserFile, len(models))
	for i, m := range models {
		out[i] = r.mapper.ToEntity(m)
	}
	return out, nil
}
