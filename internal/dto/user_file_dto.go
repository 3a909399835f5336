package dto

import "time"

type UserFileResponse struct {
	Id         int64     `json:"id"`
	SeriesId   int64     `json:"series_id"`
	OwnerId    int64     `json:"owner_id"`
	Name       string    `json:"name"`
	TotalPages int       `json:"total_pages"`
	CreatedAt  time.Time `json:"created_at"`
}

type UploadUserFileRequest struct {
	SeriesId    int64  `validate:"required,gt=0"`
	Name        string `validate:"required,max=255"`
	StoragePath string `validate:"required"`
}

type ListUserFilesRequest struct {
	Page     int  `query:"page" validate:"omitempty,gte=1"`
	PageSize int  `query:"page_size" validate:"omitempty,gte=1,lte=100"`
	Mine     bool `query:"mine"`
}
