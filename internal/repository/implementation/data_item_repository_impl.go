package implementation

import (
	"context"

	"course-notes-be/internal/entity"
	"course-notes-be/internal/mapper"
	"course-notes-be/internal/model"
	"course-notes-be/internal/repository/contract"
	"course-notes-be/internal/repository/specification"

	"gorm.io/gorm"
)

type DataItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DataItemMapper
}

func NewDataItemRepository(db *gorm.DB) contract.DataItemRepository {
	return &DataItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewDataItemMapper(),
	}
}

func (r *DataItemRepositoryImpl) Create(ctx context.Context, item *entity.DataItem) error {
	m := r.mapper.ToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

func (r *DataItemRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.DataItemRecord{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
