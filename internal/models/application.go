package models

import (
	"fmt"
	"strings"
	"time"
)

// Application links a user to an opportunity. OpportunityTitle, VillageName and
// UserName are snapshots copied at apply time, not live references.
type Application struct {
	ID               string    `json:"id"`
	OpportunityID    string    `json:"opportunityId"`
	OpportunityTitle string    `json:"opportunityTitle"`
	VillageName      string    `json:"villageName"`
	UserID           string    `json:"userId"`
	UserName         string    `json:"userName"`
	Status           string    `json:"status"`
	AppliedAt        time.Time `json:"appliedAt"`
}

// Application status constants
const (
	ApplicationStatusApplied     = "Applied"
	ApplicationStatusUnderReview = "Under Review"
	ApplicationStatusAccepted    = "Accepted"
	ApplicationStatusRejected    = "Rejected"
)

func IsValidApplicationStatus(status string) bool {
	switch status {
	case ApplicationStatusApplied, ApplicationStatusUnderReview,
		ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether an application may move from one status to another.
// Accepted and Rejected are terminal; nothing moves back to Applied.
func CanTransition(from, to string) bool {
	if !IsValidApplicationStatus(to) || to == ApplicationStatusApplied {
		return false
	}
	switch from {
	case ApplicationStatusApplied:
		return true
	case ApplicationStatusUnderReview:
		return to != ApplicationStatusUnderReview
	}
	return false
}

func (a *Application) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("application id is required")
	}
	if a.OpportunityID == "" || a.UserID == "" {
		return fmt.Errorf("application %s: opportunity and user are required", a.ID)
	}
	if !IsValidApplicationStatus(a.Status) {
		return fmt.Errorf("application %s: invalid status %q", a.ID, a.Status)
	}
	return nil
}
