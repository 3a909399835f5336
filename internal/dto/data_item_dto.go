package dto

type RecordDataItemRequest struct {
	Key    string `json:"key" validate:"required,max=100"`
	Id1    string `json:"id1" validate:"max=100"`
	Value1 string `json:"value1" validate:"max=255"`
	Id2    string `json:"id2" validate:"max=100"`
	Value2 string `json:"value2" validate:"max=255"`
}

type RecordDataItemResponse struct {
	Queued bool `json:"queued"`
}
