package notesync

import (
	"context"
	"strconv"
	"sync"
	"time"

	"course-notes-be/internal/pkg/logger"
	"course-notes-be/pkg/notes"
)

const (
	DefaultDelay        = 500 * time.Millisecond
	defaultWriteTimeout = 10 * time.Second

	// DataItemNotesSaved is the telemetry key emitted after a successful write.
	DataItemNotesSaved = "pdf_notes_saved"
)

// Fields carries the values to persist. A nil field is left untouched on the server;
// a pointer to "" persists an empty note.
type Fields struct {
	Notes       *string
	Annotations *notes.AnnotationPayload
}

// WriteRequest is the body of POST userfiles/{userFileId}/notes.
type WriteRequest struct {
	UserFileId        int64                    `json:"user_file_id"`
	SeriesId          int64                    `json:"series_id"`
	UpdateNotes       bool                     `json:"update_notes"`
	Notes             *string                  `json:"notes"`
	UpdateAnnotations bool                     `json:"update_annotations"`
	Annotations       *notes.AnnotationPayload `json:"annotations"`
	Page              int                      `json:"page"`
}

// NewWriteRequest flags exactly the fields that were specified.
func NewWriteRequest(key notes.Key, fields Fields) WriteRequest {
	return WriteRequest{
		UserFileId:        key.DocumentId,
		SeriesId:          key.SeriesId,
		UpdateNotes:       fields.Notes != nil,
		Notes:             fields.Notes,
		UpdateAnnotations: fields.Annotations != nil,
		Annotations:       fields.Annotations,
		Page:              key.Page,
	}
}

// DataItem is a usage analytics record with up to two id/value pairs.
type DataItem struct {
	Key    string `json:"key"`
	Id1    string `json:"id1,omitempty"`
	Value1 string `json:"value1,omitempty"`
	Id2    string `json:"id2,omitempty"`
	Value2 string `json:"value2,omitempty"`
}

type Writer interface {
	SaveNotes(ctx context.Context, req WriteRequest) error
}

type Recorder interface {
	RecordDataItem(ctx context.Context, item DataItem) error
}

type pendingWrite struct {
	timer  *time.Timer
	fields Fields
}

type Config struct {
	Delay        time.Duration
	WriteTimeout time.Duration
}

// Scheduler coalesces edits per page: each Schedule call for a key restarts
// that key's timer and replaces its payload. When a timer fires exactly one
// write is sent. Failed writes are logged and dropped.
type Scheduler struct {
	cfg      Config
	writer   Writer
	recorder Recorder
	logger   logger.ILogger

	mu      sync.Mutex
	pending map[notes.Key]*pendingWrite
	closed  bool

	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
}

func NewScheduler(cfg Config, writer Writer, recorder Recorder, log logger.ILogger) *Scheduler {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:      cfg,
		writer:   writer,
		recorder: recorder,
		logger:   log,
		pending:  make(map[notes.Key]*pendingWrite),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Schedule installs or replaces the pending write for key.
func (s *Scheduler) Schedule(key notes.Key, fields Fields) {
	fields.Annotations = fields.Annotations.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.logger.Warn("NotesSync", "Write scheduled after close, dropping", map[string]interface{}{"page": key.Page, "user_file_id": key.DocumentId})
		return
	}

	if prev, ok := s.pending[key]; ok {
		prev.timer.Stop()
	}

	pw := &pendingWrite{fields: fields}
	pw.timer = time.AfterFunc(s.cfg.Delay, func() { s.fire(key, pw) })
	s.pending[key] = pw
}

// Pending counts keys that have a timer armed.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush sends every pending write immediately and waits for all in-flight writes.
func (s *Scheduler) Flush(ctx context.Context) {
	s.mu.Lock()
	due := make(map[notes.Key]*pendingWrite, len(s.pending))
	for key, pw := range s.pending {
		if pw.timer.Stop() {
			due[key] = pw
		}
	}
	s.mu.Unlock()

	for key, pw := range due {
		s.fire(key, pw)
	}
	s.wait(ctx)
}

// Close drops pending writes and waits for in-flight ones to finish.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	for key, pw := range s.pending {
		pw.timer.Stop()
		delete(s.pending, key)
	}
	s.mu.Unlock()

	s.inflight.Wait()
	s.cancel()
}

func (s *Scheduler) wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (s *Scheduler) fire(key notes.Key, pw *pendingWrite) {
	s.mu.Lock()
	// A newer Schedule call may have replaced this write after its timer fired.
	if cur, ok := s.pending[key]; !ok || cur != pw {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	s.inflight.Add(1)
	s.mu.Unlock()

	defer s.inflight.Done()

	req := NewWriteRequest(key, pw.fields)
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.WriteTimeout)
	defer cancel()

	if err := s.writer.SaveNotes(ctx, req); err != nil {
		s.logger.Error("NotesSync", "Failed to persist notes", map[string]interface{}{
			"error":        err.Error(),
			"series_id":    key.SeriesId,
			"user_file_id": key.DocumentId,
			"page":         key.Page,
		})
		return
	}

	s.logger.Debug("NotesSync", "Notes persisted", map[string]interface{}{
		"user_file_id":       key.DocumentId,
		"page":               key.Page,
		"update_notes":       req.UpdateNotes,
		"update_annotations": req.UpdateAnnotations,
	})

	if s.recorder != nil {
		go s.record(DataItem{
			Key:    DataItemNotesSaved,
			Id1:    "user_file_id",
			Value1: strconv.FormatInt(key.DocumentId, 10),
			Id2:    "page",
			Value2: strconv.Itoa(key.Page),
		})
	}
}

func (s *Scheduler) record(item DataItem) {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.WriteTimeout)
	defer cancel()
	if err := s.recorder.RecordDataItem(ctx, item); err != nil {
		s.logger.Warn("NotesSync", "Failed to record data item", map[string]interface{}{"error": err.Error(), "key": item.Key})
	}
}
