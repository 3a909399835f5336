package notes

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Key addresses a single page of a document attached to a series.
type Key struct {
	SeriesId   int64
	DocumentId int64
	Page       int
}

// Document returns the document half of the key.
func (k Key) Document() DocumentKey {
	return DocumentKey{SeriesId: k.SeriesId, DocumentId: k.DocumentId}
}

type DocumentKey struct {
	SeriesId   int64
	DocumentId int64
}

// Page builds the key of one page of the document.
func (d DocumentKey) Page(page int) Key {
	return Key{SeriesId: d.SeriesId, DocumentId: d.DocumentId, Page: page}
}

// AnnotationPayload is the drawing layer of a page. Data is opaque to this package.
type AnnotationPayload struct {
	Scale float64         `json:"scale"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Clone returns a deep copy so callers can never alias the stored drawing data.
func (a *AnnotationPayload) Clone() *AnnotationPayload {
	if a == nil {
		return nil
	}
	c := &AnnotationPayload{Scale: a.Scale}
	if a.Data != nil {
		c.Data = append(json.RawMessage(nil), a.Data...)
	}
	return c
}

// Equal reports whether both payloads carry the same scale and bytes.
func (a *AnnotationPayload) Equal(b *AnnotationPayload) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Scale == b.Scale && bytes.Equal(a.Data, b.Data)
}

// PageEntry holds the mine and shared content of one page.
// A nil field was never fetched or created; an empty string was cleared by the user.
type PageEntry struct {
	Notes             *string
	SharedNotes       *string
	Annotations       *AnnotationPayload
	SharedAnnotations *AnnotationPayload
}

// IsEmpty reports whether all four fields are absent.
func (e PageEntry) IsEmpty() bool {
	return e.Notes == nil && e.SharedNotes == nil && e.Annotations == nil && e.SharedAnnotations == nil
}

func (e PageEntry) clone() PageEntry {
	c := PageEntry{
		Annotations:       e.Annotations.Clone(),
		SharedAnnotations: e.SharedAnnotations.Clone(),
	}
	if e.Notes != nil {
		c.Notes = stringPtr(*e.Notes)
	}
	if e.SharedNotes != nil {
		c.SharedNotes = stringPtr(*e.SharedNotes)
	}
	return c
}

type pageTable map[int]PageEntry

// Mapping is an immutable set of page tables, one per (series, document).
// Every write returns a new Mapping; page tables that were not touched are shared.
type Mapping struct {
	docs map[DocumentKey]pageTable
}

// Get returns the entry stored for key.
func (m Mapping) Get(key Key) (PageEntry, bool) {
	pages, ok := m.docs[key.Document()]
	if !ok {
		return PageEntry{}, false
	}
	entry, ok := pages[key.Page]
	return entry.clone(), ok
}

// Has reports whether the document has been scaffolded.
func (m Mapping) Has(doc DocumentKey) bool {
	_, ok := m.docs[doc]
	return ok
}

// Pages lists the page numbers of doc in ascending order.
func (m Mapping) Pages(doc DocumentKey) []int {
	pages := m.docs[doc]
	out := make([]int, 0, len(pages))
	for p := range pages {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// Documents lists every document present in the mapping.
func (m Mapping) Documents() []DocumentKey {
	out := make([]DocumentKey, 0, len(m.docs))
	for d := range m.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeriesId != out[j].SeriesId {
			return out[i].SeriesId < out[j].SeriesId
		}
		return out[i].DocumentId < out[j].DocumentId
	})
	return out
}

// Len counts page entries across all documents.
func (m Mapping) Len() int {
	n := 0
	for _, pages := range m.docs {
		n += len(pages)
	}
	return n
}

// Merge returns the key-wise union of m and other. Documents present in other replace those in m.
func (m Mapping) Merge(other Mapping) Mapping {
	docs := make(map[DocumentKey]pageTable, len(m.docs)+len(other.docs))
	for k, v := range m.docs {
		docs[k] = v
	}
	for k, v := range other.docs {
		docs[k] = v
	}
	return Mapping{docs: docs}
}

// withEntry copies the top-level table and the one page table holding key.
func (m Mapping) withEntry(key Key, entry PageEntry) Mapping {
	doc := key.Document()
	docs := make(map[DocumentKey]pageTable, len(m.docs))
	for k, v := range m.docs {
		docs[k] = v
	}
	src := m.docs[doc]
	pages := make(pageTable, len(src)+1)
	for p, e := range src {
		pages[p] = e
	}
	pages[key.Page] = entry
	docs[doc] = pages
	return Mapping{docs: docs}
}

func stringPtr(s string) *string {
	return &s
}
