package models

import (
	"fmt"
	"strings"
	"time"
)

type Village struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Location            string          `json:"location"`
	ShortDescription    string          `json:"shortDescription"`
	LongDescription     string          `json:"longDescription"`
	MainImage           string          `json:"mainImage"`
	VRImages            []string        `json:"vrImages"`
	Coordinates         Coordinates     `json:"coordinates"`
	InstagramPosts      []string        `json:"instagramPosts"`
	CulturalAttractions string          `json:"culturalAttractions"`
	UniqueOfferings     string          `json:"uniqueOfferings"`
	Accommodations      []Accommodation `json:"accommodations"`
	CommunityPosts      []CommunityPost `json:"communityPosts"` // newest first
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Accommodation struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	VRImages    []string `json:"vrImages,omitempty"`
}

type CommunityPost struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	AvatarURL string    `json:"avatarUrl"`
	Message   string    `json:"message"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	VideoURL  string    `json:"videoUrl,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

// Accommodation types
const (
	AccommodationHomestay = "Homestay"
	AccommodationHotel    = "Hotel"
)

func (v *Village) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return fmt.Errorf("village id is required")
	}
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("village %s: name is required", v.ID)
	}
	if v.Coordinates.Latitude < -90 || v.Coordinates.Latitude > 90 {
		return fmt.Errorf("village %s: latitude %v out of range", v.ID, v.Coordinates.Latitude)
	}
	if v.Coordinates.Longitude < -180 || v.Coordinates.Longitude > 180 {
		return fmt.Errorf("village %s: longitude %v out of range", v.ID, v.Coordinates.Longitude)
	}
	for i := range v.Accommodations {
		if err := v.Accommodations[i].Validate(); err != nil {
			return fmt.Errorf("village %s: %w", v.ID, err)
		}
	}
	seen := make(map[string]bool, len(v.CommunityPosts))
	for _, p := range v.CommunityPosts {
		if p.ID == "" {
			return fmt.Errorf("village %s: community post without id", v.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("village %s: duplicate community post id %s", v.ID, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func (a *Accommodation) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("accommodation name is required")
	}
	if a.Type != AccommodationHomestay && a.Type != AccommodationHotel {
		return fmt.Errorf("accommodation %s: invalid type %q", a.Name, a.Type)
	}
	return nil
}

// Clone returns a deep copy so callers never alias registry slices.
func (v Village) Clone() Village {
	out := v
	out.VRImages = cloneStrings(v.VRImages)
	out.InstagramPosts = cloneStrings(v.InstagramPosts)
	if v.Accommodations != nil {
		out.Accommodations = make([]Accommodation, len(v.Accommodations))
		for i, a := range v.Accommodations {
			a.VRImages = cloneStrings(a.VRImages)
			out.Accommodations[i] = a
		}
	}
	if v.CommunityPosts != nil {
		out.CommunityPosts = append([]CommunityPost(nil), v.CommunityPosts...)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
