package booking

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// In-memory store fakes backing the engine tests.  They reproduce the
// repository contract: ErrNotExists on missing rows, ErrOverlap from
// the write-path conflict re-check and ErrStale on version mismatch.

type fakeUsers struct {
	rows map[uint64]*model.User
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, ErrNotExists
	}
	cp := *u
	return &cp, nil
}

type fakeClients struct {
	rows map[uint64]*model.Client
}

func (f *fakeClients) GetByID(_ context.Context, id uint64) (*model.Client, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, ErrNotExists
	}
	cp := *c
	return &cp, nil
}

type fakeTables struct {
	rows map[uint64]*model.Table
}

func (f *fakeTables) GetByID(_ context.Context, id uint64) (*model.Table, error) {
	t, ok := f.rows[id]
	if !ok {
		return nil, ErrNotExists
	}
	cp := *t
	return &cp, nil
}

type fakeTypes struct {
	rows map[uint64]*model.TableType
}

func (f *fakeTypes) GetByID(_ context.Context, id uint64) (*model.TableType, error) {
	tt, ok := f.rows[id]
	if !ok {
		return nil, ErrNotExists
	}
	cp := *tt
	return &cp, nil
}

type fakeRules struct {
	rules []model.PricingRule
}

func (f *fakeRules) GetApplicable(_ context.Context, tableTypeID uint64, date time.Time) ([]model.PricingRule, error) {
	day := Midnight(date)
	out := make([]model.PricingRule, 0, len(f.rules))
	for _, r := range f.rules {
		if r.TableTypeID != tableTypeID || !r.IsActive {
			continue
		}
		if day.Before(Midnight(r.StartDate)) || day.After(Midnight(r.EndDate)) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// fakeReservations mimics the MySQL repository: writes re-run the
// overlap check, updates enforce the version column, and staleFailures
// lets tests inject lost optimistic writes.
type fakeReservations struct {
	mu            sync.Mutex
	rows          map[uint64]*model.Reservation
	nextID        uint64
	staleFailures int // Update returns ErrStale this many times
}

func newFakeReservations() *fakeReservations {
	return &fakeReservations{rows: map[uint64]*model.Reservation{}, nextID: 1}
}

func (f *fakeReservations) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, ErrNotExists
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReservations) ExistsOverlapping(_ context.Context, tableID uint64, w TimeWindow, excludeID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overlapsLocked(tableID, w, excludeID), nil
}

func (f *fakeReservations) overlapsLocked(tableID uint64, w TimeWindow, excludeID uint64) bool {
	for _, r := range f.rows {
		if r.TableID != tableID || r.ID == excludeID || r.Status.IsTerminal() {
			continue
		}
		if w.Overlaps(NewTimeWindow(r.Date, r.StartMinutes, r.EndMinutes)) {
			return true
		}
	}
	return false
}

func (f *fakeReservations) Create(_ context.Context, r *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overlapsLocked(r.TableID, NewTimeWindow(r.Date, r.StartMinutes, r.EndMinutes), 0) {
		return ErrOverlap
	}
	r.ID = f.nextID
	f.nextID++
	r.Version = 1
	cp := *r
	f.rows[r.ID] = &cp
	return nil
}

func (f *fakeReservations) Update(_ context.Context, r *model.Reservation, checkConflict bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.rows[r.ID]
	if !ok {
		return ErrNotExists
	}
	if checkConflict && f.overlapsLocked(r.TableID, NewTimeWindow(r.Date, r.StartMinutes, r.EndMinutes), r.ID) {
		return ErrOverlap
	}
	if f.staleFailures > 0 {
		f.staleFailures--
		return ErrStale
	}
	if stored.Version != r.Version {
		return ErrStale
	}
	r.Version++
	cp := *r
	f.rows[r.ID] = &cp
	return nil
}

// fixture wires an engine over populated fakes: one active admin user,
// one active client, a 4-seat window table of an active type with a
// 100/hour rate, and no pricing rules.
type fixture struct {
	engine       *Engine
	reservations *fakeReservations
	rules        *fakeRules
	clients      *fakeClients
	tables       *fakeTables
	types        *fakeTypes
	users        *fakeUsers
	now          time.Time
}

func newFixture() *fixture {
	users := &fakeUsers{rows: map[uint64]*model.User{
		1: {ID: 1, Email: "admin@example.com", Role: model.RoleAdmin, IsActive: true},
		2: {ID: 2, Email: "gone@example.com", Role: model.RoleStaff, IsActive: false},
	}}
	clients := &fakeClients{rows: map[uint64]*model.Client{
		1: {ID: 1, FullName: "Dana Reyes", Phone: "555-0101", Status: model.ClientActive},
		2: {ID: 2, FullName: "Former Guest", Phone: "555-0102", Status: model.ClientInactive},
	}}
	types := &fakeTypes{rows: map[uint64]*model.TableType{
		1: {ID: 1, Name: "Window", BasePricePerHour: 100, IsActive: true},
		2: {ID: 2, Name: "Retired", BasePricePerHour: 80, IsActive: false},
	}}
	tables := &fakeTables{rows: map[uint64]*model.Table{
		1: {ID: 1, Code: "WIN01", Capacity: 4, TableTypeID: 1, Status: model.TableActive},
		2: {ID: 2, Code: "WIN02", Capacity: 4, TableTypeID: 1, Status: model.TableActive},
		3: {ID: 3, Code: "WIN03", Capacity: 4, TableTypeID: 1, Status: model.TableInactive},
		4: {ID: 4, Code: "RET01", Capacity: 4, TableTypeID: 2, Status: model.TableActive},
	}}
	rules := &fakeRules{}
	reservations := newFakeReservations()

	pricing := NewPricingEngine(tables, types, rules)
	availability := NewAvailabilityChecker(reservations)
	engine := NewEngine(users, clients, tables, types, reservations, pricing, availability)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine.Now = func() time.Time { return now }

	return &fixture{
		engine:       engine,
		reservations: reservations,
		rules:        rules,
		clients:      clients,
		tables:       tables,
		types:        types,
		users:        users,
		now:          now,
	}
}

// window builds a valid future window on table date 2026-03-14.
func (f *fixture) window(startMin, endMin int) TimeWindow {
	return NewTimeWindow(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), startMin, endMin)
}

func (f *fixture) createReq(w TimeWindow) CreateRequest {
	return CreateRequest{ActorID: 1, ClientID: 1, TableID: 1, Window: w, Guests: 2}
}
