// Package store holds the in-memory registry of villages, opportunities,
// bookings, applications and kirana stores. A Store is seeded once and lives
// for the process lifetime; every write goes through the methods in
// mutations.go under a single lock so the uniqueness rules are checked in one
// place.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/villagestay/villagestay/internal/models"
)

// AdminOwnerID is the owner id that BookingsByOwner treats as "every owner".
// It is compared literally; it is not a role check.
const AdminOwnerID = "admin"

type Option func(*Store)

// WithClock overrides the time source used for post and application timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how application ids are generated.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newAppID = gen }
}

type Store struct {
	mu sync.RWMutex

	villages     []*models.Village
	villageIdx   map[string]*models.Village
	internships  []models.Internship
	internIdx    map[string]int
	bookings     []models.Booking
	applications []models.Application
	appIdx       map[string]int
	appPairs     map[applicationKey]struct{}
	stores       []models.KiranaStore
	storeIdx     map[string]int

	lastPostAt time.Time
	now        func() time.Time
	newAppID   func() string
}

type applicationKey struct {
	opportunityID string
	userID        string
}

// New validates the fixtures and builds a store holding private copies of them.
func New(f models.Fixtures, opts ...Option) (*Store, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}

	s := &Store{
		villageIdx: make(map[string]*models.Village, len(f.Villages)),
		internIdx:  make(map[string]int, len(f.Internships)),
		appIdx:     make(map[string]int, len(f.Applications)),
		appPairs:   make(map[applicationKey]struct{}, len(f.Applications)),
		storeIdx:   make(map[string]int, len(f.KiranaStores)),
		now:        func() time.Time { return time.Now().UTC() },
		newAppID:   func() string { return "app-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, v := range f.Villages {
		village := v.Clone()
		s.villages = append(s.villages, &village)
		s.villageIdx[village.ID] = &village
		for _, p := range village.CommunityPosts {
			if p.CreatedAt.After(s.lastPostAt) {
				s.lastPostAt = p.CreatedAt
			}
		}
	}
	for _, in := range f.Internships {
		s.internIdx[in.ID] = len(s.internships)
		s.internships = append(s.internships, in.Clone())
	}
	s.bookings = append(s.bookings, f.Bookings...)
	for _, a := range f.Applications {
		s.appIdx[a.ID] = len(s.applications)
		s.appPairs[applicationKey{a.OpportunityID, a.UserID}] = struct{}{}
		s.applications = append(s.applications, a)
	}
	for _, k := range f.KiranaStores {
		s.storeIdx[k.ID] = len(s.stores)
		s.stores = append(s.stores, k)
	}

	return s, nil
}

// Stats reports collection sizes, used for start-up logging and health output.
type Stats struct {
	Villages     int `json:"villages"`
	Internships  int `json:"internships"`
	Bookings     int `json:"bookings"`
	Applications int `json:"applications"`
	KiranaStores int `json:"kiranaStores"`
	Posts        int `json:"posts"`
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Villages:     len(s.villages),
		Internships:  len(s.internships),
		Bookings:     len(s.bookings),
		Applications: len(s.applications),
		KiranaStores: len(s.stores),
	}
	for _, v := range s.villages {
		st.Posts += len(v.CommunityPosts)
	}
	return st
}
