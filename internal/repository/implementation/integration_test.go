package implementation_test

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"
	"time"

	"course-notes-be/internal/entity"
	"course-notes-be/internal/model"
	"course-notes-be/internal/repository/specification"
	"course-notes-be/internal/repository/unitofwork"
	"course-notes-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) unitofwork.RepositoryFactory {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, true)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.UserFile{}, &model.UserFileNote{}, &model.DataItemRecord{}))
	return unitofwork.NewRepositoryFactory(db)
}

func TestUserFileNoteRoundTrip(t *testing.T) {
	factory := openDB(t)
	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)

	file := &entity.UserFile{SeriesId: 900001, OwnerId: 1, Name: "it.pdf", StoragePath: "/tmp/it.pdf", TotalPages: 2, CreatedAt: time.Now()}
	require.NoError(t, uow.UserFileRepository().Create(ctx, file))
	require.NotZero(t, file.Id)

	text := "integration"
	note := &entity.UserFileNote{
		Id:          uuid.New(),
		SeriesId:    file.SeriesId,
		UserFileId:  file.Id,
		UserId:      1,
		Page:        1,
		Notes:       &text,
		Annotations: json.RawMessage(`{"scale":1.5}`),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, uow.UserFileNoteRepository().Create(ctx, note))

	t.Run("Duplicate slot is a unique violation", func(t *testing.T) {
		dup := *note
		dup.Id = uuid.New()
		err := uow.UserFileNoteRepository().Create(ctx, &dup)
		assert.True(t, database.IsUniqueViolation(err), "got %v", err)
	})

	t.Run("Slot lookup under lock", func(t *testing.T) {
		tx := factory.NewUnitOfWork(ctx)
		require.NoError(t, tx.Begin(ctx))
		defer tx.Rollback()

		specs := append(specification.NoteSlot(file.Id, 1, 1), specification.ForUpdate{})
		found, err := tx.UserFileNoteRepository().FindOne(ctx, specs...)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "integration", *found.Notes)
		assert.JSONEq(t, `{"scale":1.5}`, string(found.Annotations))
		require.NoError(t, tx.Commit())
	})

	t.Run("Data items are counted by key", func(t *testing.T) {
		key := "it_" + uuid.NewString()
		require.NoError(t, uow.DataItemRepository().Create(ctx, &entity.DataItem{Id: uuid.New(), UserId: 1, Key: key, RecordedAt: time.Now()}))
		count, err := uow.DataItemRepository().Count(ctx, specification.ByDataItemKey{Key: key})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
