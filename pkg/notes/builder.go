package notes

// RawRecord is one row of the notes history returned by the server.
type RawRecord struct {
	UserId      int64              `json:"user_id"`
	Page        int                `json:"page"`
	Notes       *string            `json:"notes"`
	Annotations *AnnotationPayload `json:"annotations"`
}

// Ownership tells whether content was written by the viewing user or shared by someone else.
type Ownership int

const (
	Mine Ownership = iota
	Shared
)

func (o Ownership) String() string {
	if o == Mine {
		return "mine"
	}
	return "shared"
}

// Conflict reports that more than one record targeted the same page and ownership class.
// The later record (Index) overwrote the earlier one (Previous).
type Conflict struct {
	Page      int
	Ownership Ownership
	Previous  int
	Index     int
}

// BuildMapping turns the flat server history of one document into a Mapping.
// Pages 1..totalPages are scaffolded before any record is merged, so lookups on
// those pages always succeed afterwards. Records outside that range get their own entry.
func BuildMapping(seriesId, documentId, currentUserId int64, totalPages int, records []RawRecord) (Mapping, []Conflict) {
	if totalPages < 0 {
		totalPages = 0
	}

	pages := make(pageTable, totalPages)
	for p := 1; p <= totalPages; p++ {
		pages[p] = PageEntry{}
	}

	type slot struct {
		page      int
		ownership Ownership
	}
	seen := make(map[slot]int)
	var conflicts []Conflict

	for i, rec := range records {
		entry := pages[rec.Page]

		ownership := Shared
		if rec.UserId == currentUserId {
			ownership = Mine
		}

		s := slot{page: rec.Page, ownership: ownership}
		if prev, ok := seen[s]; ok {
			conflicts = append(conflicts, Conflict{Page: rec.Page, Ownership: ownership, Previous: prev, Index: i})
		}
		seen[s] = i

		switch ownership {
		case Mine:
			if rec.Notes != nil {
				entry.Notes = stringPtr(*rec.Notes)
			}
			if rec.Annotations != nil {
				entry.Annotations = rec.Annotations.Clone()
			}
		case Shared:
			if rec.Notes != nil {
				entry.SharedNotes = stringPtr(*rec.Notes)
			}
			if rec.Annotations != nil {
				entry.SharedAnnotations = rec.Annotations.Clone()
			}
		}
		pages[rec.Page] = entry
	}

	doc := DocumentKey{SeriesId: seriesId, DocumentId: documentId}
	return Mapping{docs: map[DocumentKey]pageTable{doc: pages}}, conflicts
}
