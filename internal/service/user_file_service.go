package service

import (
	"context"
	"time"

	"course-notes-be/internal/dto"
	"course-notes-be/internal/entity"
	"course-notes-be/internal/pkg/logger"
	"course-notes-be/internal/pkg/serverutils"
	"course-notes-be/internal/repository/contract"
	"course-notes-be/internal/repository/scope"
	"course-notes-be/internal/repository/specification"
	"course-notes-be/internal/repository/unitofwork"
	"course-notes-be/pkg/pdfinfo"
)

const defaultUserFilePageSize = 20

type IUserFileService interface {
	Register(ctx context.Context, userId int64, req *dto.UploadUserFileRequest) (*dto.UserFileResponse, error)
	Show(ctx context.Context, seriesId, userFileId int64) (*dto.UserFileResponse, error)
	List(ctx context.Context, userId, seriesId int64, req *dto.ListUserFilesRequest) ([]dto.UserFileResponse, error)
	Find(ctx context.Context, seriesId, userFileId int64) (*entity.UserFile, error)
}

type userFileService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      contract.UserFileCache
	pages      pdfinfo.PageCounter
	logger     logger.ILogger
}

func NewUserFileService(
	uowFactory unitofwork.RepositoryFactory,
	cache contract.UserFileCache,
	pages pdfinfo.PageCounter,
	log logger.ILogger,
) IUserFileService {
	return &userFileService{
		uowFactory: uowFactory,
		cache:      cache,
		pages:      pages,
		logger:     log,
	}
}

// Register stores metadata for a PDF already written to StoragePath.
func (s *userFileService) Register(ctx context.Context, userId int64, req *dto.UploadUserFileRequest) (*dto.UserFileResponse, error) {
	total, err := s.pages.CountFilePages(req.StoragePath)
	if err != nil {
		s.logger.Warn("USER_FILE", "Rejected upload", map[string]interface{}{"series_id": req.SeriesId, "name": req.Name, "error": err.Error()})
		return nil, serverutils.NewBadRequest("File is not a readable PDF")
	}

	file := entity.UserFile{
		SeriesId:    req.SeriesId,
		OwnerId:     userId,
		Name:        req.Name,
		StoragePath: req.StoragePath,
		TotalPages:  total,
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserFileRepository().Create(ctx, &file); err != nil {
		return nil, err
	}
	s.cache.Save(&file)

	s.logger.Info("USER_FILE", "File registered", map[string]interface{}{"user_file_id": file.Id, "series_id": file.SeriesId, "total_pages": total})
	return toUserFileResponse(&file), nil
}

func (s *userFileService) Show(ctx context.Context, seriesId, userFileId int64) (*dto.UserFileResponse, error) {
	file, err := s.Find(ctx, seriesId, userFileId)
	if err != nil {
		return nil, err
	}
	return toUserFileResponse(file), nil
}

// List pages through the files of a series, newest first.
func (s *userFileService) List(ctx context.Context, userId, seriesId int64, req *dto.ListUserFilesRequest) ([]dto.UserFileResponse, error) {
	page, size := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultUserFilePageSize
	}

	specs := []specification.Specification{specification.Filter("user_files.series_id", seriesId)}
	if req.Mine {
		specs = append(specs, specification.UserFileOwnedBy{OwnerID: userId})
	}
	specs = append(specs,
		specification.WithScopes(scope.OrderByCreatedDesc),
		specification.Pagination{Limit: size, Offset: (page - 1) * size},
	)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	files, err := uow.UserFileRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]dto.UserFileResponse, 0, len(files))
	for _, f := range files {
		res = append(res, *toUserFileResponse(f))
	}
	return res, nil
}

// Find resolves a file of a series through the metadata cache. A file of
// another series is reported as not found.
func (s *userFileService) Find(ctx context.Context, seriesId, userFileId int64) (*entity.UserFile, error) {
	file, ok := s.cache.Get(userFileId)
	if !ok {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		found, err := uow.UserFileRepository().FindOne(ctx, specification.ByNumericID{ID: userFileId})
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, serverutils.NewNotFound("User file not found")
		}
		s.cache.Save(found)
		file = found
	}

	if file.SeriesId != seriesId {
		return nil, serverutils.NewNotFound("User file not found")
	}
	return file, nil
}

func toUserFileResponse(f *entity.UserFile) *dto.UserFileResponse {
	return &dto.UserFileResponse{
		Id:         f.Id,
		SeriesId:   f.SeriesId,
		OwnerId:    f.OwnerId,
		Name:       f.Name,
		TotalPages: f.TotalPages,
		CreatedAt:  f.CreatedAt,
	}
}
