package mapper

import (
	"course-notes-be/internal/entity"
	"course-notes-be/internal/model"
)

type DataItemMapper struct{}

func NewDataItemMapper() *DataItemMapper {
	return &DataItemMapper{}
}

func (m *DataItemMapper) ToEntity(r *model.DataItemRecord) *entity.DataItem {
	if r == nil {
		return nil
	}
	return &entity.DataItem{
		Id:         r.Id,
		UserId:     r.UserId,
		Key:        r.Key,
		Id1:        r.Id1,
		Value1:     r.Value1,
		Id2:        r.Id2,
		Value2:     r.Value2,
		RecordedAt: r.RecordedAt,
	}
}

func (m *DataItemMapper) ToModel(d *entity.DataItem) *model.DataItemRecord {
	if d == nil {
		return nil
	}
	return &model.DataItemRecord{
		Id:         d.Id,
		UserId:     d.UserId,
		Key:        d.Key,
		Id1:        d.Id1,
		Value1:     d.Value1,
		Id2:        d.Id2,
		Value2:     d.Value2,
		RecordedAt: d.RecordedAt,
	}
}
