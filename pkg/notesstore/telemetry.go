package notesstore

import (
	"context"
	"encoding/json"
	"strconv"

	"course-notes-be/pkg/eventbus"
	"course-notes-be/pkg/notesync"
)

const DataItemPageViewed = "pdf_page_viewed"

// RecordPageViews forwards every page change on the bus to the telemetry recorder.
func RecordPageViews(ctx context.Context, bus *eventbus.Bus, recorder notesync.Recorder) error {
	return bus.Subscribe(ctx, eventbus.TopicPageChanged, func(ctx context.Context, payload []byte) error {
		var evt eventbus.PageChanged
		if err := json.Unmarshal(payload, &evt); err != nil {
			return err
		}
		return recorder.RecordDataItem(ctx, notesync.DataItem{
			Key:    DataItemPageViewed,
			Id1:    "user_file_id",
			Value1: strconv.FormatInt(evt.DocumentId, 10),
			Id2:    "page",
			Value2: strconv.Itoa(evt.Page),
		})
	})
}
