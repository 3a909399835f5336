package contract

import (
	"context"

	"course-notes-be/internal/entity"
	"course-notes-be/internal/repository/specification"
)

type UserFileRepository interface {
	Create(ctx context.Context, file *entity.UserFile) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserFile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserFile, error)
}
