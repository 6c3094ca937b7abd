//go:build unit

// Package memstore is an in-memory shared.UnitOfWork. Transactions read committed state,
// buffer their writes and apply them atomically on commit; LockDate holds a per-date mutex
// until the transaction ends, mirroring the advisory lock of the postgres implementation.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/query"
	"clinic-scheduler/internal/usecase/shared"
)

type blockKey struct {
	date schedule.Date
	slot schedule.SlotID
}

type Job struct {
	shared.NotificationJob
	Status    string
	RunAt     time.Time
	LastError string
}

type Store struct {
	mu       sync.Mutex
	catalog  *schedule.Catalog
	services map[schedule.ServiceID]*schedule.Service
	bookings map[schedule.BookingID]*schedule.Booking
	blocks   map[blockKey]schedule.BookingID
	jobs     []*Job
	nextID   schedule.BookingID
	nextJob  int64
	failures map[string]error

	dateMu    sync.Mutex
	dateLocks map[schedule.Date]*sync.Mutex

	// Pause, when set, runs inside every write transaction after its reads
	Pause func()
}

func New(catalog *schedule.Catalog, services ...*schedule.Service) *Store {
	s := &Store{
		catalog:   catalog,
		services:  make(map[schedule.ServiceID]*schedule.Service),
		bookings:  make(map[schedule.BookingID]*schedule.Booking),
		blocks:    make(map[blockKey]schedule.BookingID),
		nextID:    1,
		nextJob:   1,
		failures:  make(map[string]error),
		dateLocks: make(map[schedule.Date]*sync.Mutex),
	}
	for _, svc := range services {
		s.services[svc.ID()] = svc
	}
	return s
}

// Seed stores bookings as committed rows, claiming the blocks they hold under policy
func (s *Store) Seed(policy schedule.Policy, bookings ...*schedule.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range bookings {
		s.bookings[b.ID()] = b
		for _, id := range b.HeldSlots(s.catalog, policy) {
			s.blocks[blockKey{b.Date(), id}] = b.ID()
		}
		if b.ID() >= s.nextID {
			s.nextID = b.ID() + 1
		}
	}
}

// FailOn makes the named read or write return err until cleared with a nil err
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) failure(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[op]
}

func (s *Store) Booking(id schedule.BookingID) *schedule.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id]
}

func (s *Store) Bookings() []*schedule.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*schedule.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// BlockOwner reports which booking holds a block
func (s *Store) BlockOwner(date schedule.Date, slot schedule.SlotID) (schedule.BookingID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.blocks[blockKey{date, slot}]
	return id, ok
}

func (s *Store) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Job, len(s.jobs))
	for i, j := range s.jobs {
		out[i] = *j
	}
	return out
}

func (s *Store) lockFor(d schedule.Date) *sync.Mutex {
	s.dateMu.Lock()
	defer s.dateMu.Unlock()
	m, ok := s.dateLocks[d]
	if !ok {
		m = &sync.Mutex{}
		s.dateLocks[d] = m
	}
	return m
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := &memTx{store: s}
	defer tx.unlockDates()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if s.Pause != nil {
		s.Pause()
	}
	return tx.commit()
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads shared.CommandReads) error) error {
	return fn(ctx, &reads{store: s})
}

func (s *Store) CommandReads() shared.CommandReads {
	return &reads{store: s}
}

var _ shared.UnitOfWork = (*Store)(nil)

type reads struct {
	store *Store
}

func (r *reads) SlotCatalog(context.Context) (*schedule.Catalog, error) {
	if err := r.store.failure("SlotCatalog"); err != nil {
		return nil, err
	}
	return r.store.catalog, nil
}

func (r *reads) ServiceByID(_ context.Context, id schedule.ServiceID) (*schedule.Service, error) {
	if err := r.store.failure("ServiceByID"); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	svc, ok := r.store.services[id]
	if !ok {
		return nil, infra.WrapRepoErr("service not found", nil, infra.KindNotFound)
	}
	return svc, nil
}

func (r *reads) Services(context.Context) ([]*schedule.Service, error) {
	if err := r.store.failure("Services"); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*schedule.Service, 0, len(r.store.services))
	for _, svc := range r.store.services {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *reads) BookingByID(_ context.Context, id schedule.BookingID) (*schedule.Booking, error) {
	if err := r.store.failure("BookingByID"); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return b, nil
}

func (r *reads) BookingsOnDate(_ context.Context, date schedule.Date) ([]*schedule.Booking, error) {
	if err := r.store.failure("BookingsOnDate"); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*schedule.Booking
	for _, b := range r.store.bookings {
		if b.Date().Equal(date) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

type memTx struct {
	store  *Store
	locked []*sync.Mutex
	dates  []schedule.Date
	ops    []func(s *Store) error
}

func (t *memTx) LockDate(_ context.Context, date schedule.Date) error {
	if err := t.store.failure("LockDate"); err != nil {
		return err
	}
	if slices.ContainsFunc(t.dates, date.Equal) {
		return nil
	}
	m := t.store.lockFor(date)
	m.Lock()
	t.locked = append(t.locked, m)
	t.dates = append(t.dates, date)
	return nil
}

func (t *memTx) unlockDates() {
	for i := len(t.locked) - 1; i >= 0; i-- {
		t.locked[i].Unlock()
	}
	t.locked = nil
}

func (t *memTx) Bookings() shared.BookingRepository {
	return &bookingRepo{tx: t}
}

func (t *memTx) Notifications() shared.NotificationRepository {
	return &notificationRepo{tx: t}
}

func (t *memTx) Reads() shared.CommandReads {
	return &reads{store: t.store}
}

func (t *memTx) DB() query.DBTX {
	return nil
}

// commit applies buffered writes all-or-nothing
func (t *memTx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings := make(map[schedule.BookingID]*schedule.Booking, len(s.bookings))
	for k, v := range s.bookings {
		bookings[k] = v
	}
	blocks := make(map[blockKey]schedule.BookingID, len(s.blocks))
	for k, v := range s.blocks {
		blocks[k] = v
	}
	jobs := make([]*Job, len(s.jobs))
	for i, j := range s.jobs {
		cp := *j
		jobs[i] = &cp
	}
	staged := &Store{bookings: bookings, blocks: blocks, jobs: jobs, nextJob: s.nextJob}

	for _, op := range t.ops {
		if err := op(staged); err != nil {
			return err
		}
	}

	s.bookings, s.blocks, s.jobs, s.nextJob = staged.bookings, staged.blocks, staged.jobs, staged.nextJob
	return nil
}

type bookingRepo struct {
	tx *memTx
}

func claim(s *Store, b *schedule.Booking, held []schedule.SlotID) error {
	for _, id := range held {
		key := blockKey{b.Date(), id}
		if owner, taken := s.blocks[key]; taken && owner != b.ID() && !cancelled(s, owner) {
			return infra.WrapRepoErr("booking blocks already taken", nil, infra.KindConflict)
		}
		s.blocks[key] = b.ID()
	}
	return nil
}

func cancelled(s *Store, id schedule.BookingID) bool {
	b, ok := s.bookings[id]
	return ok && b.Status() == schedule.StatusCancelled
}

func releaseBlocks(s *Store, id schedule.BookingID) {
	for k, owner := range s.blocks {
		if owner == id {
			delete(s.blocks, k)
		}
	}
}

func (r *bookingRepo) Create(_ context.Context, _ query.DBTX, b *schedule.Booking, held []schedule.SlotID) (schedule.BookingID, error) {
	if err := r.tx.store.failure("CreateBooking"); err != nil {
		return 0, err
	}
	r.tx.store.mu.Lock()
	id := r.tx.store.nextID
	r.tx.store.nextID++
	r.tx.store.mu.Unlock()

	saved := b.WithID(id)
	r.tx.ops = append(r.tx.ops, func(s *Store) error {
		s.bookings[id] = saved
		return claim(s, saved, held)
	})
	return id, nil
}

func (r *bookingRepo) Update(_ context.Context, _ query.DBTX, b *schedule.Booking, held []schedule.SlotID) error {
	if err := r.tx.store.failure("UpdateBooking"); err != nil {
		return err
	}
	if r.tx.store.Booking(b.ID()) == nil {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	r.tx.ops = append(r.tx.ops, func(s *Store) error {
		s.bookings[b.ID()] = b
		releaseBlocks(s, b.ID())
		return claim(s, b, held)
	})
	return nil
}

func (r *bookingRepo) Delete(_ context.Context, _ query.DBTX, id schedule.BookingID) error {
	if err := r.tx.store.failure("DeleteBooking"); err != nil {
		return err
	}
	if r.tx.store.Booking(id) == nil {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	r.tx.ops = append(r.tx.ops, func(s *Store) error {
		delete(s.bookings, id)
		releaseBlocks(s, id)
		return nil
	})
	return nil
}

type notificationRepo struct {
	tx *memTx
}

func (r *notificationRepo) CreateJob(_ context.Context, _ query.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	if err := r.tx.store.failure("CreateJob"); err != nil {
		return err
	}
	r.tx.ops = append(r.tx.ops, func(s *Store) error {
		s.jobs = append(s.jobs, &Job{
			NotificationJob: shared.NotificationJob{ID: s.nextJob, Kind: kind, Topic: topic, Payload: payload},
			Status:          shared.JobStatusQueued,
			RunAt:           runAt,
		})
		s.nextJob++
		return nil
	})
	return nil
}

func (r *notificationRepo) ClaimDue(_ context.Context, _ query.DBTX, now time.Time, limit int32) ([]shared.NotificationJob, error) {
	if err := r.tx.store.failure("ClaimDue"); err != nil {
		return nil, err
	}
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []shared.NotificationJob
	for _, j := range s.jobs {
		if int32(len(out)) >= limit {
			break
		}
		if j.Status == shared.JobStatusQueued && !j.RunAt.After(now) {
			out = append(out, j.NotificationJob)
		}
	}
	return out, nil
}

func (r *notificationRepo) UpdateJobStatus(_ context.Context, _ query.DBTX, jobID int64, status string, lastError *string, retryAt *time.Time) error {
	if err := r.tx.store.failure("UpdateJobStatus"); err != nil {
		return err
	}
	r.tx.ops = append(r.tx.ops, func(s *Store) error {
		for _, j := range s.jobs {
			if j.ID != jobID {
				continue
			}
			j.Status = status
			j.Attempts++
			if lastError != nil {
				j.LastError = *lastError
			}
			if retryAt != nil {
				j.RunAt = *retryAt
			}
		}
		return nil
	})
	return nil
}

// CountQueued counts committed queued jobs, adjusted for writes buffered in this transaction
func (r *notificationRepo) CountQueued(_ context.Context, _ query.DBTX) (int64, error) {
	s := r.tx.store
	s.mu.Lock()
	jobs := make([]*Job, len(s.jobs))
	for i, j := range s.jobs {
		cp := *j
		jobs[i] = &cp
	}
	s.mu.Unlock()

	preview := &Store{jobs: jobs, bookings: map[schedule.BookingID]*schedule.Booking{}, blocks: map[blockKey]schedule.BookingID{}}
	for _, op := range r.tx.ops {
		_ = op(preview)
	}
	var n int64
	for _, j := range preview.jobs {
		if j.Status == shared.JobStatusQueued {
			n++
		}
	}
	return n, nil
}
