package service

import (
	"context"
	"sync"

	"course-notes-be/internal/dto"
	"course-notes-be/internal/entity"
	"course-notes-be/internal/repository/contract"
	"course-notes-be/internal/repository/specification"
	"course-notes-be/internal/repository/unitofwork"
	"course-notes-be/pkg/events"
	pktNats "course-notes-be/pkg/nats"
)

// memStore backs the fake unit of work. Specifications are interpreted by type.
type memStore struct {
	mu        sync.Mutex
	files     map[int64]*entity.UserFile
	notes     []*entity.UserFileNote
	items     []entity.DataItem
	nextFile  int64
	findFiles int
	commits   int

	// afterNoteQuery runs once a note listing has been read, before it is returned.
	afterNoteQuery func()
}

func newMemStore() *memStore {
	return &memStore{files: map[int64]*entity.UserFile{}, nextFile: 1}
}

func (m *memStore) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &memUow{store: m}
}

type memUow struct {
	store *memStore
}

func (u *memUow) Begin(context.Context) error { return nil }
func (u *memUow) Commit() error {
	u.store.mu.Lock()
	u.store.commits++
	u.store.mu.Unlock()
	return nil
}
func (u *memUow) Rollback() error { return nil }

func (u *memUow) UserFileRepository() contract.UserFileRepository         { return &memFiles{u.store} }
func (u *memUow) UserFileNoteRepository() contract.UserFileNoteRepository { return &memNotes{u.store} }
func (u *memUow) DataItemRepository() contract.DataItemRepository         { return &memItems{u.store} }

type memFiles struct{ s *memStore }

func (r *memFiles) Create(_ context.Context, f *entity.UserFile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f.Id = r.s.nextFile
	r.s.nextFile++
	cp := *f
	r.s.files[f.Id] = &cp
	return nil
}

func (r *memFiles) FindOne(_ context.Context, specs ...specification.Specification) (*entity.UserFile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.findFiles++
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByNumericID); ok {
			if f, ok := r.s.files[byID.ID]; ok {
				cp := *f
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *memFiles) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.UserFile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.UserFile
	for id := r.s.nextFile - 1; id > 0; id-- {
		f, ok := r.s.files[id]
		if !ok || !fileMatches(f, specs) {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}

	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok {
			if p.Offset >= len(out) {
				return nil, nil
			}
			out = out[p.Offset:]
			if len(out) > p.Limit {
				out = out[:p.Limit]
			}
		}
	}
	return out, nil
}

func fileMatches(f *entity.UserFile, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.FilterBy:
			if v.Field == "user_files.series_id" && f.SeriesId != v.Value {
				return false
			}
		case specification.UserFileOwnedBy:
			if f.OwnerId != v.OwnerID {
				return false
			}
		}
	}
	return true
}

type memNotes struct{ s *memStore }

func matches(n *entity.UserFileNote, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.BySeriesID:
			if n.SeriesId != v.SeriesID {
				return false
			}
		case specification.ByUserFileID:
			if n.UserFileId != v.UserFileID {
				return false
			}
		case specification.NoteOwnedByUser:
			if n.UserId != v.UserID {
				return false
			}
		case specification.ByPage:
			if n.Page != v.Page {
				return false
			}
		}
	}
	return true
}

func (r *memNotes) Create(_ context.Context, n *entity.UserFileNote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *n
	r.s.notes = append(r.s.notes, &cp)
	return nil
}

func (r *memNotes) Update(_ context.Context, n *entity.UserFileNote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, row := range r.s.notes {
		if row.Id == n.Id {
			cp := *n
			r.s.notes[i] = &cp
		}
	}
	return nil
}

func (r *memNotes) FindOne(_ context.Context, specs ...specification.Specification) (*entity.UserFileNote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notes {
		if matches(n, specs) {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memNotes) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.UserFileNote, error) {
	out := r.snapshot(specs)

	r.s.mu.Lock()
	hook := r.s.afterNoteQuery
	r.s.afterNoteQuery = nil
	r.s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *memNotes) snapshot(specs []specification.Specification) []*entity.UserFileNote {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.UserFileNote
	for _, n := range r.s.notes {
		if matches(n, specs) {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out
}

func (r *memNotes) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.snapshot(specs))), nil
}

type memItems struct{ s *memStore }

func (r *memItems) Create(_ context.Context, item *entity.DataItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items = append(r.s.items, *item)
	return nil
}

func (r *memItems) Count(context.Context, ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.items)), nil
}

func (m *memStore) dataItems() []entity.DataItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.DataItem(nil), m.items...)
}

// mapNotesCache is an in-memory NotesCache.
type mapNotesCache struct {
	mu          sync.Mutex
	entries     map[[2]int64][]dto.NoteRecordResponse
	versions    map[[2]int64]int64
	invalidated int
}

func newMapNotesCache() *mapNotesCache {
	return &mapNotesCache{
		entries:  map[[2]int64][]dto.NoteRecordResponse{},
		versions: map[[2]int64]int64{},
	}
}

func (c *mapNotesCache) Version(_ context.Context, seriesId, userFileId int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[[2]int64{seriesId, userFileId}], nil
}

func (c *mapNotesCache) Get(_ context.Context, seriesId, userFileId int64) ([]dto.NoteRecordResponse, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[[2]int64{seriesId, userFileId}]
	return v, ok, nil
}

func (c *mapNotesCache) Set(_ context.Context, seriesId, userFileId, version int64, records []dto.NoteRecordResponse) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := [2]int64{seriesId, userFileId}
	if c.versions[key] != version {
		return false, nil
	}
	c.entries[key] = records
	return true, nil
}

func (c *mapNotesCache) Invalidate(_ context.Context, seriesId, userFileId int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := [2]int64{seriesId, userFileId}
	delete(c.entries, key)
	c.versions[key]++
	c.invalidated++
	return nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	payloads []interface{}
}

func (p *recordingPublisher) Publish(_ context.Context, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type fakePageCounter struct {
	pages int
	err   error
}

func (f fakePageCounter) CountFilePages(string) (int, error) { return f.pages, f.err }

type fakeEventPublisher struct {
	err    error
	events []events.Event
}

func (p *fakeEventPublisher) Publish(_ context.Context, evt events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

type fakeEventSubscriber struct {
	eventType string
	durable   string
	handler   pktNats.EventHandler
}

func (s *fakeEventSubscriber) Subscribe(_ context.Context, eventType, durable string, handler pktNats.EventHandler) error {
	s.eventType, s.durable, s.handler = eventType, durable, handler
	return nil
}

type broadcast struct {
	seriesID int64
	msgType  string
	data     interface{}
}

type fakeDelivery struct {
	mu   sync.Mutex
	sent []broadcast
}

func (d *fakeDelivery) BroadcastSeries(seriesID int64, msgType string, data interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, broadcast{seriesID, msgType, data})
	return nil
}

func (d *fakeDelivery) snapshot() []broadcast {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]broadcast(nil), d.sent...)
}
