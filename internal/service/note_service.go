package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"course-notes-be/internal/dto"
	"course-notes-be/internal/entity"
	"course-notes-be/internal/pkg/logger"
	"course-notes-be/internal/pkg/serverutils"
	"course-notes-be/internal/repository/contract"
	"course-notes-be/internal/repository/scope"
	"course-notes-be/internal/repository/specification"
	"course-notes-be/internal/repository/unitofwork"
	"course-notes-be/pkg/database"

	"github.com/google/uuid"
)

var errSlotTaken = errors.New("note slot created concurrently")

type INoteService interface {
	List(ctx context.Context, userId, seriesId, userFileId int64) ([]dto.NoteRecordResponse, error)
	Save(ctx context.Context, userId int64, req *dto.SaveNotesRequest) (*dto.NoteRecordResponse, error)
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	userFiles        IUserFileService
	cache            contract.NotesCache
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	userFiles IUserFileService,
	cache contract.NotesCache,
	publisherService IPublisherService,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		userFiles:        userFiles,
		cache:            cache,
		publisherService: publisherService,
		logger:           log,
	}
}

// List returns the rows of every user for a file. Cache failures fall
// through to the database.
func (s *noteService) List(ctx context.Context, userId, seriesId, userFileId int64) ([]dto.NoteRecordResponse, error) {
	if _, err := s.userFiles.Find(ctx, seriesId, userFileId); err != nil {
		return nil, err
	}

	cached, hit, err := s.cache.Get(ctx, seriesId, userFileId)
	if err != nil {
		s.logger.Warn("NOTES", "Cache read failed", map[string]interface{}{"series_id": seriesId, "user_file_id": userFileId, "error": err.Error()})
	}
	if hit {
		return cached, nil
	}

	// taken before the query so a write committed meanwhile voids the Set below
	version, verErr := s.cache.Version(ctx, seriesId, userFileId)
	if verErr != nil {
		s.logger.Warn("NOTES", "Cache version read failed", map[string]interface{}{"series_id": seriesId, "user_file_id": userFileId, "error": verErr.Error()})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.UserFileNoteRepository().FindAll(ctx,
		specification.BySeriesID{SeriesID: seriesId},
		specification.ByUserFileID{UserFileID: userFileId},
		specification.WithScopes(scope.OrderByPageThenUpdated),
	)
	if err != nil {
		return nil, err
	}

	records := make([]dto.NoteRecordResponse, 0, len(rows))
	for _, row := range rows {
		records = append(records, toNoteRecordResponse(row))
	}

	if verErr == nil {
		stored, err := s.cache.Set(ctx, seriesId, userFileId, version, records)
		if err != nil {
			s.logger.Warn("NOTES", "Cache write failed", map[string]interface{}{"series_id": seriesId, "user_file_id": userFileId, "error": err.Error()})
		} else if !stored {
			s.logger.Debug("NOTES", "Notes changed during read, cache not filled", map[string]interface{}{"series_id": seriesId, "user_file_id": userFileId})
		}
	}

	s.logger.Debug("NOTES", "Listed notes", map[string]interface{}{"user_id": userId, "user_file_id": userFileId, "count": len(records)})
	return records, nil
}

// Save upserts the caller's row for one page, touching only flagged fields.
func (s *noteService) Save(ctx context.Context, userId int64, req *dto.SaveNotesRequest) (*dto.NoteRecordResponse, error) {
	if !req.UpdateNotes && !req.UpdateAnnotations {
		return nil, serverutils.NewBadRequest("Nothing to update", "update_notes or update_annotations must be set")
	}

	file, err := s.userFiles.Find(ctx, req.SeriesId, req.UserFileId)
	if err != nil {
		return nil, err
	}
	if file.TotalPages > 0 && req.Page > file.TotalPages {
		return nil, serverutils.NewBadRequest("Page out of range", fmt.Sprintf("page must be at most %d", file.TotalPages))
	}

	row, err := s.upsert(ctx, userId, req)
	if errors.Is(err, errSlotTaken) {
		// another request inserted the row first; the retry takes the update path
		row, err = s.upsert(ctx, userId, req)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, row.SeriesId, row.UserFileId); err != nil {
		s.logger.Warn("NOTES", "Cache invalidation failed", map[string]interface{}{"series_id": row.SeriesId, "user_file_id": row.UserFileId, "error": err.Error()})
	}

	msg := dto.NotesWrittenMessage{
		SeriesId:   row.SeriesId,
		UserFileId: row.UserFileId,
		UserId:     row.UserId,
		Page:       row.Page,
	}
	if err := s.publisherService.Publish(ctx, msg); err != nil {
		s.logger.Warn("NOTES", "Failed to publish notes written", map[string]interface{}{"user_file_id": row.UserFileId, "page": row.Page, "error": err.Error()})
	}

	res := toNoteRecordResponse(row)
	return &res, nil
}

func (s *noteService) upsert(ctx context.Context, userId int64, req *dto.SaveNotesRequest) (*entity.UserFileNote, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.UserFileNoteRepository()
	specs := append(specification.NoteSlot(req.UserFileId, userId, req.Page), specification.ForUpdate{})
	row, err := repo.FindOne(ctx, specs...)
	if err != nil {
		return nil, err
	}

	create := row == nil
	if create {
		row = &entity.UserFileNote{
			Id:         uuid.New(),
			SeriesId:   req.SeriesId,
			UserFileId: req.UserFileId,
			UserId:     userId,
			Page:       req.Page,
			CreatedAt:  time.Now(),
		}
	}

	if req.UpdateNotes {
		row.Notes = req.Notes
	}
	if req.UpdateAnnotations {
		row.Annotations = req.AnnotationsOrNil()
	}

	if create {
		if err := repo.Create(ctx, row); err != nil {
			if database.IsUniqueViolation(err) {
				return nil, errSlotTaken
			}
			return nil, err
		}
	} else if err := repo.Update(ctx, row); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return row, nil
}

func toNoteRecordResponse(n *entity.UserFileNote) dto.NoteRecordResponse {
	return dto.NoteRecordResponse{
		UserId:      n.UserId,
		Page:        n.Page,
		Notes:       n.Notes,
		Annotations: n.Annotations,
		UpdatedAt:   n.UpdatedAt,
	}
}
