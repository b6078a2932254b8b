package application

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hyttelaget/cabin-booking/internal/domain"
	bookingDomain "github.com/hyttelaget/cabin-booking/internal/domain/booking"
	cabinDomain "github.com/hyttelaget/cabin-booking/internal/domain/cabin"
	"github.com/hyttelaget/cabin-booking/internal/domain/daterange"
	profileDomain "github.com/hyttelaget/cabin-booking/internal/domain/profile"
)

// fakeBookingRepo is an in-memory booking repository for service tests. It
// records the cabins locked through LockCabin so tests can assert a capacity
// check took the lock.
type fakeBookingRepo struct {
	mu           sync.Mutex
	bookings     map[uuid.UUID]*bookingDomain.Booking
	lockedCabins []uuid.UUID
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return b, nil
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.UserID() == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindApprovedByCabin(_ context.Context, cabinID uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.CabinID() == cabinID && b.Status() == bookingDomain.StatusApproved {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindApprovedOverlapping(_ context.Context, cabinID uuid.UUID, dates daterange.Range) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.CabinID() == cabinID && b.Status() == bookingDomain.StatusApproved && b.Dates().Overlaps(dates) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) List(_ context.Context) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

func (r *fakeBookingRepo) ListPage(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID()]; !ok {
		return domain.NewNotFoundError("booking", b.ID().String())
	}
	r.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return domain.NewNotFoundError("booking", id.String())
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) LockCabin(_ context.Context, cabinID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lockedCabins = append(r.lockedCabins, cabinID)
	return nil
}

func (r *fakeBookingRepo) InTx(_ context.Context, fn func(bookingDomain.Repository) error) error {
	return fn(r)
}

// fakeCabinRepo is an in-memory cabin repository for service tests.
type fakeCabinRepo struct {
	mu     sync.Mutex
	cabins map[uuid.UUID]*cabinDomain.Cabin
}

func newFakeCabinRepo() *fakeCabinRepo {
	return &fakeCabinRepo{cabins: make(map[uuid.UUID]*cabinDomain.Cabin)}
}

func (r *fakeCabinRepo) FindByID(_ context.Context, id uuid.UUID) (*cabinDomain.Cabin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cabins[id]
	if !ok {
		return nil, domain.NewNotFoundError("cabin", id.String())
	}
	return c, nil
}

func (r *fakeCabinRepo) List(_ context.Context) ([]*cabinDomain.Cabin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*cabinDomain.Cabin, 0, len(r.cabins))
	for _, c := range r.cabins {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (r *fakeCabinRepo) Save(_ context.Context, c *cabinDomain.Cabin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cabins[c.ID()] = c
	return nil
}

func (r *fakeCabinRepo) Update(_ context.Context, c *cabinDomain.Cabin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cabins[c.ID()]; !ok {
		return domain.NewNotFoundError("cabin", c.ID().String())
	}
	r.cabins[c.ID()] = c
	return nil
}

func (r *fakeCabinRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cabins[id]; !ok {
		return domain.NewNotFoundError("cabin", id.String())
	}
	delete(r.cabins, id)
	return nil
}

// fakeProfileRepo is an in-memory profile repository for service tests.
type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*profileDomain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*profileDomain.Profile)}
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*profileDomain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id.String())
	}
	return p, nil
}

func (r *fakeProfileRepo) List(_ context.Context) ([]*profileDomain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*profileDomain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProfileRepo) Save(_ context.Context, p *profileDomain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID()] = p
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, p *profileDomain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID()]; !ok {
		return domain.NewNotFoundError("user", p.ID().String())
	}
	r.profiles[p.ID()] = p
	return nil
}

func (r *fakeProfileRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return domain.NewNotFoundError("user", id.String())
	}
	delete(r.profiles, id)
	return nil
}

// fakePublisher records published events instead of talking to Kafka.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Topic     string
	EventType string
	Key       string
}

func (p *fakePublisher) Publish(_ context.Context, topic, eventType, key string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, EventType: eventType, Key: key})
}

func (p *fakePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}
