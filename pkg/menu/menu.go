package menu

import (
	"net/url"
)

const (
	DefaultBreakpoint = 768
	DefaultQueryParam = "tab"
)

// Item is one selectable entry of a Menu.
type Item interface {
	ID() string
	Label() string
	Hidden() bool
	Disabled() bool
}

// Tab is the standard Item with a lazily produced body.
type Tab struct {
	Key        string
	Title      string
	IsHidden   bool
	IsDisabled bool
	Content    func() string
}

func (t Tab) ID() string     { return t.Key }
func (t Tab) Label() string  { return t.Title }
func (t Tab) Hidden() bool   { return t.IsHidden }
func (t Tab) Disabled() bool { return t.IsDisabled }

// Render produces the tab body, or "" for a tab without content.
func (t Tab) Render() string {
	if t.Content == nil {
		return ""
	}
	return t.Content()
}

type Option func(*Menu)

func WithBreakpoint(px int) Option {
	return func(m *Menu) { m.breakpoint = px }
}

func WithQueryParam(name string) Option {
	return func(m *Menu) { m.param = name }
}

// Menu resolves an externally controlled selection against its items.
type Menu struct {
	items       []Item
	selected    string
	breakpoint  int
	param       string
	smallScreen bool
	collapsed   bool
}

// New keeps items with a non-empty, unique id. The first item wins on duplicates.
func New(items []Item, opts ...Option) *Menu {
	m := &Menu{breakpoint: DefaultBreakpoint, param: DefaultQueryParam}
	for _, o := range opts {
		o(m)
	}

	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it == nil || it.ID() == "" || seen[it.ID()] {
			continue
		}
		seen[it.ID()] = true
		m.items = append(m.items, it)
	}
	return m
}

func selectable(it Item) bool {
	return !it.Hidden() && !it.Disabled()
}

// Visible lists items that are not hidden, in declaration order.
func (m *Menu) Visible() []Item {
	out := make([]Item, 0, len(m.items))
	for _, it := range m.items {
		if !it.Hidden() {
			out = append(out, it)
		}
	}
	return out
}

func (m *Menu) find(id string) Item {
	for _, it := range m.items {
		if it.ID() == id {
			return it
		}
	}
	return nil
}

// Select records the external selection and reports whether it is usable.
// An unusable id is still stored; Active falls back until it becomes valid.
func (m *Menu) Select(id string) bool {
	m.selected = id
	it := m.find(id)
	if it != nil && selectable(it) && m.smallScreen {
		m.collapsed = true
	}
	return it != nil && selectable(it)
}

// Active returns the selected item, or the first selectable one when the
// selection is absent, hidden or disabled. It returns nil for an empty menu.
func (m *Menu) Active() Item {
	if it := m.find(m.selected); it != nil && selectable(it) {
		return it
	}
	for _, it := range m.items {
		if selectable(it) {
			return it
		}
	}
	return nil
}

func (m *Menu) ActiveID() string {
	if it := m.Active(); it != nil {
		return it.ID()
	}
	return ""
}

// Resize recomputes the small-screen layout flag and reports whether it changed.
// Entering small-screen layout collapses the menu.
func (m *Menu) Resize(width int) bool {
	small := width < m.breakpoint
	if small == m.smallScreen {
		return false
	}
	m.smallScreen = small
	m.collapsed = small
	return true
}

func (m *Menu) SmallScreen() bool { return m.smallScreen }

func (m *Menu) Collapsed() bool { return m.collapsed }

// Toggle expands or collapses the menu; only meaningful on small screens.
func (m *Menu) Toggle() {
	if m.smallScreen {
		m.collapsed = !m.collapsed
	}
}

// ApplyQuery selects the item named by the query parameter, if present.
func (m *Menu) ApplyQuery(q url.Values) bool {
	id := q.Get(m.param)
	if id == "" {
		return false
	}
	return m.Select(id)
}

// SyncQuery writes the active item back into q.
func (m *Menu) SyncQuery(q url.Values) {
	if id := m.ActiveID(); id != "" {
		q.Set(m.param, id)
		return
	}
	q.Del(m.param)
}
