package events

import "time"

const TypeDataItemRecorded = "DATA_ITEM_RECORDED"

// DataItemRecorded is a usage analytics item reported by a client.
type DataItemRecorded struct {
	UserId     int64     `json:"user_id"`
	Key        string    `json:"key"`
	Id1        string    `json:"id1,omitempty"`
	Value1     string    `json:"value1,omitempty"`
	Id2        string    `json:"id2,omitempty"`
	Value2     string    `json:"value2,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (e DataItemRecorded) EventType() string { return TypeDataItemRecorded }

func (e DataItemRecorded) Payload() any { return e }

func (e DataItemRecorded) Timestamp() time.Time { return e.RecordedAt }
