package contract

import (
	"context"

	"course-notes-be/internal/entity"
	"course-notes-be/internal/repository/specification"
)

type DataItemRepository interface {
	Create(ctx context.Context, item *entity.DataItem) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
