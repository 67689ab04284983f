package csvimport

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/actionitem"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/category"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/user"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/vendor"
)

// memState is the whole in-memory database; transactions snapshot and restore it.
type memState struct {
	vendors    map[int]vendor.Vendor
	users      []user.User
	categories []category.Category
	items      map[string]actionitem.ActionItem
	statuses   []actionitem.StatusEntry
	notes      []actionitem.Note
	seq        int64
}

func (s memState) clone() memState {
	return memState{
		vendors:    maps.Clone(s.vendors),
		users:      slices.Clone(s.users),
		categories: slices.Clone(s.categories),
		items:      maps.Clone(s.items),
		statuses:   slices.Clone(s.statuses),
		notes:      slices.Clone(s.notes),
		seq:        s.seq,
	}
}

type memStore struct {
	state memState
	// failNoteFor makes AddNote fail for the given item id.
	failNoteFor string
	txCount     int
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		vendors: map[int]vendor.Vendor{},
		items:   map[string]actionitem.ActionItem{},
	}}
}

func (m *memStore) next() int64 {
	m.state.seq++
	return m.state.seq
}

func (m *memStore) inTx(ctx context.Context, fn func(context.Context) error) error {
	m.txCount++
	snapshot := m.state.clone()
	if err := fn(ctx); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

func (m *memStore) addVendor(prefix string, next int) vendor.Vendor {
	v := vendor.Vendor{ID: int(m.next()), Prefix: prefix, Name: prefix + " Inc", NextNumber: next}
	m.state.vendors[v.ID] = v
	return v
}

func (m *memStore) addUser(name, initials string) user.User {
	u := user.User{ID: int(m.next()), Name: name, Email: name + "@example.com"}
	if initials != "" {
		u.Initials = &initials
	}
	m.state.users = append(m.state.users, u)
	return u
}

func (m *memStore) vendor(prefix string) vendor.Vendor {
	for _, v := range m.state.vendors {
		if v.Prefix == prefix {
			return v
		}
	}
	return vendor.Vendor{}
}

func (m *memStore) importer() *Importer {
	return NewImporter(memVendors{m}, memUsers{m}, memCategories{m}, memItems{m}, WithTxFunc(m.inTx))
}

type memVendors struct{ m *memStore }

func (r memVendors) GetByPrefix(_ context.Context, prefix string) (vendor.Vendor, error) {
	v := r.m.vendor(prefix)
	if v.ID == 0 {
		return vendor.Vendor{}, vendor.ErrNotFound
	}
	return v, nil
}

func (r memVendors) List(context.Context) ([]vendor.Vendor, error) {
	return slices.Collect(maps.Values(r.m.state.vendors)), nil
}

func (r memVendors) Create(_ context.Context, v vendor.Vendor) (vendor.Vendor, error) {
	v.ID = int(r.m.next())
	r.m.state.vendors[v.ID] = v
	return v, nil
}

func (r memVendors) AdvanceNextNumber(_ context.Context, id int, next int) (bool, error) {
	v := r.m.state.vendors[id]
	if v.NextNumber >= next {
		return false, nil
	}
	v.NextNumber = next
	r.m.state.vendors[id] = v
	return true, nil
}

func (r memVendors) SetNextNumber(_ context.Context, id int, next int) error {
	v := r.m.state.vendors[id]
	v.NextNumber = next
	r.m.state.vendors[id] = v
	return nil
}

type memUsers struct{ m *memStore }

func (r memUsers) GetAll(context.Context) ([]user.User, error) {
	out := slices.Clone(r.m.state.users)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memUsers) Create(_ context.Context, u user.User) (user.User, error) {
	u.ID = int(r.m.next())
	r.m.state.users = append(r.m.state.users, u)
	return u, nil
}

type memCategories struct{ m *memStore }

func (r memCategories) ListByVendor(_ context.Context, vendorID int) ([]category.Category, error) {
	var out []category.Category
	for _, c := range r.m.state.categories {
		if c.VendorID == vendorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memCategories) Create(_ context.Context, c category.Category) (category.Category, error) {
	for _, existing := range r.m.state.categories {
		if existing.VendorID == c.VendorID && existing.Name == c.Name {
			return category.Category{}, errors.New("duplicate category")
		}
	}
	c.ID = int(r.m.next())
	r.m.state.categories = append(r.m.state.categories, c)
	return c, nil
}

type memItems struct{ m *memStore }

func (r memItems) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.m.state.items[id]
	return ok, nil
}

func (r memItems) GetByID(_ context.Context, id string) (actionitem.ActionItem, error) {
	it, ok := r.m.state.items[id]
	if !ok {
		return actionitem.ActionItem{}, actionitem.ErrNotFound
	}
	return it, nil
}

func (r memItems) Create(_ context.Context, item actionitem.ActionItem) error {
	if _, ok := r.m.state.items[item.ID]; ok {
		return errors.New("duplicate action item")
	}
	item.CreatedAt = time.Now()
	r.m.state.items[item.ID] = item
	return nil
}

func (r memItems) AddStatus(_ context.Context, e actionitem.StatusEntry) (actionitem.StatusEntry, error) {
	e.ID = r.m.next()
	r.m.state.statuses = append(r.m.state.statuses, e)
	return e, nil
}

func (r memItems) AddNote(_ context.Context, n actionitem.Note) (actionitem.Note, error) {
	if n.ActionItemID == r.m.failNoteFor {
		return actionitem.Note{}, errors.New("disk full")
	}
	n.ID = int(r.m.next())
	r.m.state.notes = append(r.m.state.notes, n)
	return n, nil
}

func (r memItems) CurrentStatus(_ context.Context, id string) (actionitem.StatusEntry, error) {
	var cur *actionitem.StatusEntry
	for i := range r.m.state.statuses {
		e := &r.m.state.statuses[i]
		if e.ActionItemID != id {
			continue
		}
		if cur == nil || e.ChangedAt.After(cur.ChangedAt) || (e.ChangedAt.Equal(cur.ChangedAt) && e.ID > cur.ID) {
			cur = e
		}
	}
	if cur == nil {
		return actionitem.StatusEntry{}, actionitem.ErrNotFound
	}
	return *cur, nil
}

func (r memItems) Notes(_ context.Context, id string) ([]actionitem.Note, error) {
	var out []actionitem.Note
	for _, n := range r.m.state.notes {
		if n.ActionItemID == id {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r memItems) MaxNumber(_ context.Context, vendorID int) (int, error) {
	n := 0
	for _, it := range r.m.state.items {
		if it.VendorID == vendorID {
			n = max(n, it.Number)
		}
	}
	return n, nil
}
