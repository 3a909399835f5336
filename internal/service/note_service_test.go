package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"course-notes-be/internal/dto"
	"course-notes-be/internal/entity"
	"course-notes-be/internal/pkg/logger"
	"course-notes-be/internal/pkg/serverutils"
	"course-notes-be/internal/repository/memory"
	"course-notes-be/pkg/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteFixture struct {
	store     *memStore
	cache     *mapNotesCache
	publisher *recordingPublisher
	svc       INoteService
	file      *entity.UserFile
}

func newNoteFixture(t *testing.T) *noteFixture {
	store := newMemStore()
	file := &entity.UserFile{SeriesId: 4, OwnerId: 1, Name: "lecture.pdf", TotalPages: 3}
	require.NoError(t, store.NewUnitOfWork(context.Background()).UserFileRepository().Create(context.Background(), file))

	log := logger.NewNopLogger()
	files := NewUserFileService(store, memory.NewUserFileCache(time.Minute), fakePageCounter{pages: 3}, log)
	cache := newMapNotesCache()
	pub := &recordingPublisher{}

	return &noteFixture{
		store:     store,
		cache:     cache,
		publisher: pub,
		svc:       NewNoteService(store, files, cache, pub, log),
		file:      file,
	}
}

func str(s string) *string { return &s }

func TestSaveCreatesThenUpdatesOnlyFlaggedFields(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	_, err := f.svc.Save(ctx, 1, &dto.SaveNotesRequest{
		UserFileId: f.file.Id, SeriesId: 4, Page: 2,
		UpdateNotes: true, Notes: str("draft"),
		UpdateAnnotations: true, Annotations: json.RawMessage(`{"scale":1,"data":{"paths":[]}}`),
	})
	require.NoError(t, err)

	res, err := f.svc.Save(ctx, 1, &dto.SaveNotesRequest{
		UserFileId: f.file.Id, SeriesId: 4, Page: 2,
		UpdateNotes: true, Notes: str("final"),
		Annotations: json.RawMessage(`{"scale":9}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "final", *res.Notes)
	assert.JSONEq(t, `{"scale":1,"data":{"paths":[]}}`, string(res.Annotations))

	require.Len(t, f.store.notes, 1)

	res, err = f.svc.Save(ctx, 1, &dto.SaveNotesRequest{
		UserFileId: f.file.Id, SeriesId: 4, Page: 2,
		UpdateAnnotations: true, Annotations: json.RawMessage(`null`),
	})
	require.NoError(t, err)
	assert.Equal(t, "final", *res.Notes)
	assert.Nil(t, res.Annotations)

	require.Len(t, f.publisher.payloads, 3)
	assert.Equal(t, dto.NotesWrittenMessage{SeriesId: 4, UserFileId: f.file.Id, UserId: 1, Page: 2}, f.publisher.payloads[0])
}

func TestSaveRejectsInvalidRequests(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.SaveNotesRequest
		code int
	}{
		{"no flags", dto.SaveNotesRequest{UserFileId: f.file.Id, SeriesId: 4, Page: 1}, 400},
		{"page past end", dto.SaveNotesRequest{UserFileId: f.file.Id, SeriesId: 4, Page: 4, UpdateNotes: true}, 400},
		{"wrong series", dto.SaveNotesRequest{UserFileId: f.file.Id, SeriesId: 5, Page: 1, UpdateNotes: true}, 404},
		{"unknown file", dto.SaveNotesRequest{UserFileId: 999, SeriesId: 4, Page: 1, UpdateNotes: true}, 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Save(ctx, 1, &tt.req)
			appErr, ok := serverutils.AsAppError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
	assert.Empty(t, f.store.notes)
	assert.Empty(t, f.publisher.payloads)
}

func TestListReturnsAllUsersAndCaches(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	for _, userId := range []int64{1, 2} {
		_, err := f.svc.Save(ctx, userId, &dto.SaveNotesRequest{
			UserFileId: f.file.Id, SeriesId: 4, Page: 1, UpdateNotes: true, Notes: str("by user"),
		})
		require.NoError(t, err)
	}

	records, err := f.svc.List(ctx, 1, 4, f.file.Id)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.ElementsMatch(t, []int64{1, 2}, []int64{records[0].UserId, records[1].UserId})

	cached, hit, _ := f.cache.Get(ctx, 4, f.file.Id)
	require.True(t, hit)
	assert.Equal(t, records, cached)

	f.store.notes = nil
	again, err := f.svc.List(ctx, 1, 4, f.file.Id)
	require.NoError(t, err)
	assert.Len(t, again, 2)

	_, err = f.svc.List(ctx, 1, 9, f.file.Id)
	assert.Error(t, err)
}

func TestSaveInvalidatesBeforeReturning(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	_, err := f.svc.Save(ctx, 1, &dto.SaveNotesRequest{
		UserFileId: f.file.Id, SeriesId: 4, Page: 1, UpdateNotes: true, Notes: str("v1"),
	})
	require.NoError(t, err)

	records, err := f.svc.List(ctx, 1, 4, f.file.Id)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "v1", *records[0].Notes)

	_, err = f.svc.Save(ctx, 1, &dto.SaveNotesRequest{
		UserFileId: f.file.Id, SeriesId: 4, Page: 1, UpdateNotes: true, Notes: str("v2"),
	})
	require.NoError(t, err)

	records, err = f.svc.List(ctx, 1, 4, f.file.Id)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "v2", *records[0].Notes)
}

func TestListDoesNotCacheRowsReadBeforeConcurrentSave(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	_, err := f.svc.Save(ctx, 1, &dto.SaveNotesRequest{
		UserFileId: f.file.Id, SeriesId: 4, Page: 1, UpdateNotes: true, Notes: str("old"),
	})
	require.NoError(t, err)

	// a write commits between the listing query and the cache fill
	f.store.afterNoteQuery = func() {
		_, err := f.svc.Save(ctx, 2, &dto.SaveNotesRequest{
			UserFileId: f.file.Id, SeriesId: 4, Page: 1, UpdateNotes: true, Notes: str("new"),
		})
		require.NoError(t, err)
	}

	slow, err := f.svc.List(ctx, 1, 4, f.file.Id)
	require.NoError(t, err)
	assert.Len(t, slow, 1)

	_, hit, _ := f.cache.Get(ctx, 4, f.file.Id)
	assert.False(t, hit)

	fresh, err := f.svc.List(ctx, 1, 4, f.file.Id)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)

	_, hit, _ = f.cache.Get(ctx, 4, f.file.Id)
	assert.True(t, hit)
}

func TestConsumerBroadcasts(t *testing.T) {
	bus := eventbus.New(logger.NewNopLogger())
	defer bus.Close()

	delivery := &fakeDelivery{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumer := NewConsumerService(bus, "notes.written", delivery, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	pub := NewPublisherService("notes.written", bus)
	msg := dto.NotesWrittenMessage{SeriesId: 4, UserFileId: 7, UserId: 1, Page: 1}
	require.NoError(t, pub.Publish(ctx, msg))

	require.Eventually(t, func() bool { return len(delivery.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	sent := delivery.snapshot()[0]
	assert.Equal(t, int64(4), sent.seriesID)
	assert.Equal(t, MessageNotesUpdated, sent.msgType)
	assert.Equal(t, msg, sent.data)
}
