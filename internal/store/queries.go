package store

import (
	"github.com/villagestay/villagestay/internal/models"
)

// PostOrder selects how VillagePosts projects a village's timeline.
type PostOrder int

const (
	// NewestFirst is the natural order: the latest post is at the head.
	NewestFirst PostOrder = iota
	// OldestFirst is the reverse of the natural order.
	OldestFirst
)

func (s *Store) VillageByID(id string) (models.Village, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.villageIdx[id]
	if !ok {
		return models.Village{}, false
	}
	return v.Clone(), true
}

func (s *Store) Villages() []models.Village {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Village, 0, len(s.villages))
	for _, v := range s.villages {
		out = append(out, v.Clone())
	}
	return out
}

func (s *Store) VillagePosts(villageID string, order PostOrder) ([]models.CommunityPost, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.villageIdx[villageID]
	if !ok {
		return nil, false
	}
	out := make([]models.CommunityPost, len(v.CommunityPosts))
	if order == OldestFirst {
		for i, p := range v.CommunityPosts {
			out[len(out)-1-i] = p
		}
		return out, true
	}
	copy(out, v.CommunityPosts)
	return out, true
}

func (s *Store) InternshipByID(id string) (models.Internship, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.internIdx[id]
	if !ok {
		return models.Internship{}, false
	}
	return s.internships[i].Clone(), true
}

func (s *Store) Internships() []models.Internship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Internship, 0, len(s.internships))
	for _, in := range s.internships {
		out = append(out, in.Clone())
	}
	return out
}

func (s *Store) AllBookings() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Booking{}, s.bookings...)
}

// BookingsByOwner returns the bookings owned by ownerID. The literal
// AdminOwnerID returns every booking instead of filtering.
func (s *Store) BookingsByOwner(ownerID string) []models.Booking {
	if ownerID == AdminOwnerID {
		return s.AllBookings()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Booking{}
	for _, b := range s.bookings {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) AllApplications() []models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Application{}, s.applications...)
}

func (s *Store) ApplicationsByUser(userID string) []models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Application{}
	for _, a := range s.applications {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) ApplicationByID(id string) (models.Application, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.appIdx[id]
	if !ok {
		return models.Application{}, false
	}
	return s.applications[i], true
}

func (s *Store) KiranaStores() []models.KiranaStore {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.KiranaStore{}, s.stores...)
}

func (s *Store) KiranaStoreByID(id string) (models.KiranaStore, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.storeIdx[id]
	if !ok {
		return models.KiranaStore{}, false
	}
	return s.stores[i], true
}
