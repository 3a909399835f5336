package contract

import (
	"context"

	"course-notes-be/internal/entity"
	"course-notes-be/internal/repository/specification"
)

type UserFileNoteRepository interface {
	Create(ctx context.Context, note *entity.UserFileNote) error
	Update(ctx context.Context, note *entity.UserFileNote) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserFileNote, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserFileNote, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
