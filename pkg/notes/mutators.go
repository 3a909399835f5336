package notes

import (
	"errors"
	"fmt"
)

// ErrEntryNotFound is returned when a mutation targets a page that was never scaffolded.
var ErrEntryNotFound = errors.New("notes entry not found")

type EntryNotFoundError struct {
	Key Key
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("%s: series=%d document=%d page=%d", ErrEntryNotFound, e.Key.SeriesId, e.Key.DocumentId, e.Key.Page)
}

func (e *EntryNotFoundError) Unwrap() error {
	return ErrEntryNotFound
}

// SetNote returns a copy of m whose personal note at key is text.
func SetNote(m Mapping, key Key, text string) (Mapping, error) {
	entry, ok := m.Get(key)
	if !ok {
		return m, &EntryNotFoundError{Key: key}
	}
	entry.Notes = stringPtr(text)
	return m.withEntry(key, entry), nil
}

// SetAnnotation returns a copy of m whose personal annotation at key is payload.
// The payload is copied; later changes to it by the caller are not observed.
func SetAnnotation(m Mapping, key Key, payload *AnnotationPayload) (Mapping, error) {
	entry, ok := m.Get(key)
	if !ok {
		return m, &EntryNotFoundError{Key: key}
	}
	entry.Annotations = payload.Clone()
	return m.withEntry(key, entry), nil
}
