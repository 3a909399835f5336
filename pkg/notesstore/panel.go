package notesstore

import (
	"errors"
	"net/url"

	"course-notes-be/pkg/menu"
	"course-notes-be/pkg/notes"
)

var ErrSharedReadOnly = errors.New("shared notes are read-only")

const (
	TabMine   = "mine"
	TabShared = "shared"
)

// Panel is the notes side panel of one document. It always reads through the
// store, so it never holds a stale copy of the mapping.
type Panel struct {
	store *Store
	doc   notes.DocumentKey
	tabs  *menu.Menu
}

func NewPanel(store *Store, doc notes.DocumentKey) *Panel {
	p := &Panel{store: store, doc: doc}
	p.tabs = menu.New([]menu.Item{
		menu.Tab{Key: TabMine, Title: "My notes", Content: func() string { return p.textFor(Mine) }},
		menu.Tab{Key: TabShared, Title: "Shared notes", Content: func() string { return p.textFor(Shared) }},
	}, menu.WithQueryParam("notes"))
	return p
}

func (p *Panel) Tabs() *menu.Menu { return p.tabs }

func (p *Panel) View() View {
	if p.tabs.ActiveID() == TabShared {
		return Shared
	}
	return Mine
}

func (p *Panel) SetView(v View) {
	if v == Shared {
		p.tabs.Select(TabShared)
		return
	}
	p.tabs.Select(TabMine)
}

// Toggle switches between the personal and the shared view.
func (p *Panel) Toggle() View {
	if p.View() == Mine {
		p.SetView(Shared)
	} else {
		p.SetView(Mine)
	}
	return p.View()
}

func (p *Panel) ApplyQuery(q url.Values) { p.tabs.ApplyQuery(q) }

func (p *Panel) SyncQuery(q url.Values) { p.tabs.SyncQuery(q) }

func (p *Panel) key() notes.Key {
	return p.doc.Page(p.store.Snapshot().CurrentPage)
}

func (p *Panel) textFor(v View) string {
	text, _ := p.store.Note(p.key(), v)
	return text
}

// Text renders the active tab for the current page.
func (p *Panel) Text() string {
	if tab, ok := p.tabs.Active().(menu.Tab); ok {
		return tab.Render()
	}
	return ""
}

// Loading and Failed mirror the store's load state for rendering decisions.
func (p *Panel) Loading() bool { return p.store.Snapshot().LoadState == Loading }

func (p *Panel) Failed() bool { return p.store.Snapshot().LoadState == Failed }

// Edit replaces the personal note of the current page. Shared notes are read-only.
func (p *Panel) Edit(text string) error {
	if p.View() == Shared {
		return ErrSharedReadOnly
	}
	return p.store.UpdateNote(p.key(), text)
}
