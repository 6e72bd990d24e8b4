package models

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Booking is a guest stay. VillageName is a display snapshot.
type Booking struct {
	ID          string `json:"id"`
	VillageName string `json:"villageName"`
	GuestName   string `json:"guestName"`
	OwnerID     string `json:"ownerId"`
	CheckIn     string `json:"checkIn"`
	CheckOut    string `json:"checkOut"`
	Status      string `json:"status"`
}

// Booking status constants
const (
	BookingStatusConfirmed = "Confirmed"
	BookingStatusPending   = "Pending"
	BookingStatusCancelled = "Cancelled"
)

func (b *Booking) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("booking id is required")
	}
	switch b.Status {
	case BookingStatusConfirmed, BookingStatusPending, BookingStatusCancelled:
	default:
		return fmt.Errorf("booking %s: invalid status %q", b.ID, b.Status)
	}
	checkIn, err := time.Parse(DateLayout, b.CheckIn)
	if err != nil {
		return fmt.Errorf("booking %s: invalid check-in date %q", b.ID, b.CheckIn)
	}
	checkOut, err := time.Parse(DateLayout, b.CheckOut)
	if err != nil {
		return fmt.Errorf("booking %s: invalid check-out date %q", b.ID, b.CheckOut)
	}
	if !checkOut.After(checkIn) {
		return fmt.Errorf("booking %s: check-out must be after check-in", b.ID)
	}
	return nil
}

// Nights returns the length of the stay. Validate must have passed.
func (b *Booking) Nights() int {
	checkIn, _ := time.Parse(DateLayout, b.CheckIn)
	checkOut, _ := time.Parse(DateLayout, b.CheckOut)
	return int(checkOut.Sub(checkIn).Hours() / 24)
}
