package notesstore

import (
	"context"
	"errors"
	"sync"

	"course-notes-be/internal/pkg/logger"
	"course-notes-be/pkg/eventbus"
	"course-notes-be/pkg/notes"
	"course-notes-be/pkg/notesync"
)

type LoadState int

const (
	Unloaded LoadState = iota
	Loading
	Succeeded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unloaded"
	}
}

// View selects which half of a page entry is read.
type View int

const (
	Mine View = iota
	Shared
)

func (v View) String() string {
	if v == Shared {
		return "shared"
	}
	return "mine"
}

// State is a read-only snapshot of the store.
type State struct {
	LoadState           LoadState
	CurrentPage         int
	DrawingEnabled      bool
	AnnotationsVisible  bool
	RemoteUpdateEnabled bool
	Notes               notes.Mapping
}

// Fetcher loads the raw notes history of one document.
type Fetcher interface {
	ListNotes(ctx context.Context, seriesId, userFileId int64) ([]notes.RawRecord, error)
}

// Syncer is the outbound half: scheduled writes of a single page.
type Syncer interface {
	Schedule(key notes.Key, fields notesync.Fields)
}

// Store owns the notes state of a viewing session. Writes are serialized;
// readers receive immutable snapshots.
type Store struct {
	currentUserId int64
	fetcher       Fetcher
	syncer        Syncer
	bus           *eventbus.Bus
	logger        logger.ILogger

	mu        sync.RWMutex
	state     State
	listeners map[int]func(State)
	nextId    int
}

func New(currentUserId int64, fetcher Fetcher, syncer Syncer, bus *eventbus.Bus, log logger.ILogger) *Store {
	return &Store{
		currentUserId: currentUserId,
		fetcher:       fetcher,
		syncer:        syncer,
		bus:           bus,
		logger:        log,
		state:         initialState(),
		listeners:     make(map[int]func(State)),
	}
}

func initialState() State {
	return State{CurrentPage: 1, AnnotationsVisible: true}
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to receive every new state. The returned func removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextId
	s.nextId++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// update applies fn under the write lock and notifies listeners with the result.
func (s *Store) update(fn func(st *State) error) error {
	s.mu.Lock()
	next := s.state
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	listeners := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return nil
}

// FetchDocumentNotes loads one document's notes and merges them into the session mapping.
// A failed fetch disables remote updates until a later fetch succeeds.
func (s *Store) FetchDocumentNotes(ctx context.Context, seriesId, documentId int64, totalPages int) error {
	_ = s.update(func(st *State) error {
		st.LoadState = Loading
		return nil
	})

	records, err := s.fetcher.ListNotes(ctx, seriesId, documentId)
	if err != nil {
		s.logger.Error("NotesStore", "Failed to fetch document notes", map[string]interface{}{
			"error":        err.Error(),
			"series_id":    seriesId,
			"user_file_id": documentId,
		})
		_ = s.update(func(st *State) error {
			st.LoadState = Failed
			st.RemoteUpdateEnabled = false
			return nil
		})
		return err
	}

	mapping, conflicts := notes.BuildMapping(seriesId, documentId, s.currentUserId, totalPages, records)
	for _, c := range conflicts {
		s.logger.Warn("NotesStore", "Duplicate notes record, later one kept", map[string]interface{}{
			"series_id":    seriesId,
			"user_file_id": documentId,
			"page":         c.Page,
			"ownership":    c.Ownership.String(),
			"previous":     c.Previous,
			"index":        c.Index,
		})
	}

	return s.update(func(st *State) error {
		st.Notes = st.Notes.Merge(mapping)
		st.LoadState = Succeeded
		st.RemoteUpdateEnabled = true
		return nil
	})
}

// UpdateNote changes the personal note of a page locally and schedules the remote write.
func (s *Store) UpdateNote(key notes.Key, text string) error {
	return s.edit(key, func(m notes.Mapping) (notes.Mapping, error) {
		return notes.SetNote(m, key, text)
	}, notesync.Fields{Notes: &text})
}

// UpdateAnnotation changes the personal annotation of a page locally and schedules the remote write.
func (s *Store) UpdateAnnotation(key notes.Key, payload *notes.AnnotationPayload) error {
	if payload == nil {
		return errors.New("annotation payload is required")
	}
	return s.edit(key, func(m notes.Mapping) (notes.Mapping, error) {
		return notes.SetAnnotation(m, key, payload)
	}, notesync.Fields{Annotations: payload})
}

// UpdatePage changes the personal note and drawing of a page together and
// schedules one write carrying both. A nil argument leaves that field alone.
func (s *Store) UpdatePage(key notes.Key, text *string, payload *notes.AnnotationPayload) error {
	if text == nil && payload == nil {
		return errors.New("nothing to update")
	}

	var fields notesync.Fields
	if text != nil {
		t := *text
		fields.Notes = &t
	}
	fields.Annotations = payload

	return s.edit(key, func(m notes.Mapping) (notes.Mapping, error) {
		next := m
		var err error
		if fields.Notes != nil {
			if next, err = notes.SetNote(next, key, *fields.Notes); err != nil {
				return m, err
			}
		}
		if payload != nil {
			if next, err = notes.SetAnnotation(next, key, payload); err != nil {
				return m, err
			}
		}
		return next, nil
	}, fields)
}

func (s *Store) edit(key notes.Key, mutate func(notes.Mapping) (notes.Mapping, error), fields notesync.Fields) error {
	var remote bool
	err := s.update(func(st *State) error {
		next, err := mutate(st.Notes)
		if err != nil {
			return err
		}
		st.Notes = next
		remote = st.RemoteUpdateEnabled
		// Scheduled under the lock so outbound writes follow local edit order.
		if remote {
			s.syncer.Schedule(key, fields)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !remote {
		s.logger.Debug("NotesStore", "Remote updates disabled, edit kept local", map[string]interface{}{"page": key.Page, "user_file_id": key.DocumentId})
	}
	return nil
}

// SetCurrentPage moves the viewer and broadcasts the page change.
func (s *Store) SetCurrentPage(doc notes.DocumentKey, page int) {
	_ = s.update(func(st *State) error {
		st.CurrentPage = page
		return nil
	})

	if s.bus == nil {
		return
	}
	evt := eventbus.PageChanged{SeriesId: doc.SeriesId, DocumentId: doc.DocumentId, Page: page}
	if err := s.bus.Publish(eventbus.TopicPageChanged, evt); err != nil {
		s.logger.Warn("NotesStore", "Failed to publish page change", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Store) SetDrawing(enabled bool) {
	_ = s.update(func(st *State) error {
		st.DrawingEnabled = enabled
		return nil
	})
}

func (s *Store) SetAnnotationsVisible(visible bool) {
	_ = s.update(func(st *State) error {
		st.AnnotationsVisible = visible
		return nil
	})
}

// Reset returns the store to its initial, unloaded state.
func (s *Store) Reset() {
	_ = s.update(func(st *State) error {
		*st = initialState()
		return nil
	})
}

// Note returns the text stored for key in the requested view.
func (s *Store) Note(key notes.Key, view View) (string, bool) {
	entry, ok := s.Snapshot().Notes.Get(key)
	if !ok {
		return "", false
	}
	p := entry.Notes
	if view == Shared {
		p = entry.SharedNotes
	}
	if p == nil {
		return "", false
	}
	return *p, true
}

// Annotation returns the drawing stored for key in the requested view.
func (s *Store) Annotation(key notes.Key, view View) (*notes.AnnotationPayload, bool) {
	entry, ok := s.Snapshot().Notes.Get(key)
	if !ok {
		return nil, false
	}
	p := entry.Annotations
	if view == Shared {
		p = entry.SharedAnnotations
	}
	return p, p != nil
}
