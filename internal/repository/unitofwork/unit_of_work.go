package unitofwork

import (
	"context"

	"course-notes-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserFileRepository() contract.UserFileRepository
	UserFileNoteRepository() contract.UserFileNoteRepository
	DataItemRepository() contract.DataItemRepository
}
