package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/villagestay/villagestay/internal/models"
	"github.com/villagestay/villagestay/pkg/errors"
	"github.com/villagestay/villagestay/pkg/utils"
)

// NewPost is the caller-supplied part of a community post.
type NewPost struct {
	Author    string
	AvatarURL string
	Message   string
	ImageURL  string
	VideoURL  string
}

// AddPostToVillage prepends a post to the village timeline and returns it.
// An unknown village is reported before any problem with the post itself.
// Post timestamps are strictly increasing across the store, so ordering by
// time always agrees with insertion order.
func (s *Store) AddPostToVillage(villageID string, p NewPost) (models.CommunityPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	village, ok := s.villageIdx[villageID]
	if !ok {
		return models.CommunityPost{}, errors.New(errors.ErrCodeNotFound, fmt.Sprintf("village %q not found", villageID))
	}
	if strings.TrimSpace(p.Author) == "" {
		return models.CommunityPost{}, errors.New(errors.ErrCodeValidation, "author is required")
	}
	if strings.TrimSpace(p.Message) == "" {
		return models.CommunityPost{}, errors.New(errors.ErrCodeValidation, "message is required")
	}

	createdAt := s.nextPostTime()
	post := models.CommunityPost{
		ID:        fmt.Sprintf("post-%d", createdAt.UnixNano()),
		Author:    p.Author,
		AvatarURL: p.AvatarURL,
		Message:   p.Message,
		ImageURL:  p.ImageURL,
		VideoURL:  p.VideoURL,
		CreatedAt: createdAt,
	}

	posts := make([]models.CommunityPost, 0, len(village.CommunityPosts)+1)
	posts = append(posts, post)
	village.CommunityPosts = append(posts, village.CommunityPosts...)

	return post, nil
}

// nextPostTime must be called with the write lock held.
func (s *Store) nextPostTime() time.Time {
	t := s.now()
	if !t.After(s.lastPostAt) {
		t = s.lastPostAt.Add(time.Nanosecond)
	}
	s.lastPostAt = t
	return t
}

// AddApplication records that userID applied to opportunityID. The duplicate
// check and the append happen under one write lock.
func (s *Store) AddApplication(opportunityID, userID string) (models.Application, error) {
	if strings.TrimSpace(userID) == "" {
		return models.Application{}, errors.New(errors.ErrCodeValidation, "user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.internIdx[opportunityID]
	if !ok {
		return models.Application{}, errors.New(errors.ErrCodeNotFound, fmt.Sprintf("opportunity %q not found", opportunityID))
	}
	key := applicationKey{opportunityID, userID}
	if _, exists := s.appPairs[key]; exists {
		return models.Application{}, errors.New(errors.ErrCodeDuplicateApplication, "you have already applied for this opportunity")
	}

	opp := s.internships[i]
	app := models.Application{
		ID:               s.newAppID(),
		OpportunityID:    opp.ID,
		OpportunityTitle: opp.Title,
		VillageName:      opp.VillageName,
		UserID:           userID,
		UserName:         utils.DisplayNameFromID(userID),
		Status:           models.ApplicationStatusApplied,
		AppliedAt:        s.now(),
	}
	if _, clash := s.appIdx[app.ID]; clash {
		return models.Application{}, errors.New(errors.ErrCodeInternalError, "generated application id already in use")
	}

	s.appIdx[app.ID] = len(s.applications)
	s.appPairs[key] = struct{}{}
	s.applications = append(s.applications, app)

	return app, nil
}

// SetApplicationStatus moves an application along its review lifecycle.
func (s *Store) SetApplicationStatus(applicationID, status string) (models.Application, error) {
	if !models.IsValidApplicationStatus(status) {
		return models.Application{}, errors.New(errors.ErrCodeValidation, fmt.Sprintf("unknown status %q", status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.appIdx[applicationID]
	if !ok {
		return models.Application{}, errors.New(errors.ErrCodeNotFound, fmt.Sprintf("application %q not found", applicationID))
	}
	current := s.applications[i].Status
	if !models.CanTransition(current, status) {
		return models.Application{}, errors.New(errors.ErrCodeInvalidTransition,
			fmt.Sprintf("cannot move application from %s to %s", current, status))
	}

	s.applications[i].Status = status
	return s.applications[i], nil
}
