package database

import (
	"time"

	"github.com/villagestay/villagestay/internal/models"
)

// Position columns keep fixture order stable across a save and load.

type VillageRow struct {
	ID                  string                 `gorm:"primaryKey;size:64"`
	Position            int                    `gorm:"not null;index"`
	Name                string                 `gorm:"size:255;not null"`
	Location            string                 `gorm:"size:255"`
	ShortDescription    string                 `gorm:"type:text"`
	LongDescription     string                 `gorm:"type:text"`
	MainImage           string                 `gorm:"size:512"`
	VRImages            []string               `gorm:"type:text;serializer:json"`
	Latitude            float64                `gorm:"not null;default:0"`
	Longitude           float64                `gorm:"not null;default:0"`
	InstagramPosts      []string               `gorm:"type:text;serializer:json"`
	CulturalAttractions string                 `gorm:"type:text"`
	UniqueOfferings     string                 `gorm:"type:text"`
	Accommodations      []models.Accommodation `gorm:"type:text;serializer:json"`
}

func (VillageRow) TableName() string { return "villages" }

type CommunityPostRow struct {
	VillageID string    `gorm:"primaryKey;size:64"`
	ID        string    `gorm:"primaryKey;size:64"`
	Position  int       `gorm:"not null;index"`
	Author    string    `gorm:"size:255;not null"`
	AvatarURL string    `gorm:"size:512"`
	Message   string    `gorm:"type:text;not null"`
	ImageURL  string    `gorm:"size:512"`
	VideoURL  string    `gorm:"size:512"`
	PostedAt  time.Time `gorm:"not null"`
}

func (CommunityPostRow) TableName() string { return "community_posts" }

type InternshipRow struct {
	ID               string   `gorm:"primaryKey;size:64"`
	Position         int      `gorm:"not null;index"`
	Title            string   `gorm:"size:255;not null"`
	VillageID        string   `gorm:"size:64;index"`
	VillageName      string   `gorm:"size:255"`
	Category         string   `gorm:"size:32;not null"`
	Duration         string   `gorm:"size:64"`
	ShortDescription string   `gorm:"type:text"`
	LongDescription  string   `gorm:"type:text"`
	Responsibilities []string `gorm:"type:text;serializer:json"`
	Benefits         []string `gorm:"type:text;serializer:json"`
	SDGs             []int    `gorm:"column:sdgs;type:text;serializer:json"`
}

func (InternshipRow) TableName() string { return "internships" }

type BookingRow struct {
	ID          string `gorm:"primaryKey;size:64"`
	Position    int    `gorm:"not null;index"`
	VillageName string `gorm:"size:255"`
	GuestName   string `gorm:"size:255"`
	OwnerID     string `gorm:"size:64;index"`
	CheckIn     string `gorm:"size:10"`
	CheckOut    string `gorm:"size:10"`
	Status      string `gorm:"size:32"`
}

func (BookingRow) TableName() string { return "bookings" }

type ApplicationRow struct {
	ID               string    `gorm:"primaryKey;size:64"`
	Position         int       `gorm:"not null;index"`
	OpportunityID    string    `gorm:"size:64;uniqueIndex:idx_application_pair"`
	UserID           string    `gorm:"size:64;uniqueIndex:idx_application_pair"`
	OpportunityTitle string    `gorm:"size:255"`
	VillageName      string    `gorm:"size:255"`
	UserName         string    `gorm:"size:255"`
	Status           string    `gorm:"size:32"`
	AppliedAt        time.Time `gorm:"not null"`
}

func (ApplicationRow) TableName() string { return "applications" }

type KiranaStoreRow struct {
	ID          string `gorm:"primaryKey;size:64"`
	Position    int    `gorm:"not null;index"`
	Name        string `gorm:"size:255;not null"`
	VillageName string `gorm:"size:255"`
	Description string `gorm:"type:text"`
}

func (KiranaStoreRow) TableName() string { return "kirana_stores" }
