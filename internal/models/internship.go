package models

import (
	"fmt"
	"strings"
)

// Internship is an opportunity a user can apply to. VillageName is a snapshot
// of the owning village's name taken when the fixture was written; it is not
// refreshed if the village is renamed.
type Internship struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	VillageID        string   `json:"villageId"`
	VillageName      string   `json:"villageName"`
	Category         string   `json:"category"`
	Duration         string   `json:"duration"`
	ShortDescription string   `json:"shortDescription"`
	LongDescription  string   `json:"longDescription"`
	Responsibilities []string `json:"responsibilities"`
	Benefits         []string `json:"benefits"`
	SDGs             []int    `json:"sdgs"`
}

// Opportunity categories
const (
	CategoryInternship   = "Internship"
	CategoryVolunteering = "Volunteering"
)

func (i *Internship) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("internship id is required")
	}
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("internship %s: title is required", i.ID)
	}
	if i.Category != CategoryInternship && i.Category != CategoryVolunteering {
		return fmt.Errorf("internship %s: invalid category %q", i.ID, i.Category)
	}
	for _, sdg := range i.SDGs {
		if sdg < 1 || sdg > 17 {
			return fmt.Errorf("internship %s: SDG %d out of range", i.ID, sdg)
		}
	}
	return nil
}

func (i Internship) Clone() Internship {
	out := i
	out.Responsibilities = cloneStrings(i.Responsibilities)
	out.Benefits = cloneStrings(i.Benefits)
	if i.SDGs != nil {
		out.SDGs = append([]int(nil), i.SDGs...)
	}
	return out
}
