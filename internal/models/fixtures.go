package models

import "fmt"

// Fixtures is the seed bundle the registry is built from.
type Fixtures struct {
	Villages     []Village     `json:"villages"`
	Internships  []Internship  `json:"internships"`
	Bookings     []Booking     `json:"bookings"`
	Applications []Application `json:"applications"`
	KiranaStores []KiranaStore `json:"kiranaStores"`
}

// Validate checks every record and rejects duplicate ids within a collection,
// dangling opportunity references and duplicate (opportunity, user) applications.
func (f *Fixtures) Validate() error {
	villages := make(map[string]bool, len(f.Villages))
	for i := range f.Villages {
		v := &f.Villages[i]
		if err := v.Validate(); err != nil {
			return err
		}
		if villages[v.ID] {
			return fmt.Errorf("duplicate village id %s", v.ID)
		}
		villages[v.ID] = true
	}

	internships := make(map[string]bool, len(f.Internships))
	for i := range f.Internships {
		in := &f.Internships[i]
		if err := in.Validate(); err != nil {
			return err
		}
		if internships[in.ID] {
			return fmt.Errorf("duplicate internship id %s", in.ID)
		}
		if in.VillageID != "" && !villages[in.VillageID] {
			return fmt.Errorf("internship %s: unknown village %s", in.ID, in.VillageID)
		}
		internships[in.ID] = true
	}

	bookings := make(map[string]bool, len(f.Bookings))
	for i := range f.Bookings {
		b := &f.Bookings[i]
		if err := b.Validate(); err != nil {
			return err
		}
		if bookings[b.ID] {
			return fmt.Errorf("duplicate booking id %s", b.ID)
		}
		bookings[b.ID] = true
	}

	apps := make(map[string]bool, len(f.Applications))
	pairs := make(map[[2]string]bool, len(f.Applications))
	for i := range f.Applications {
		a := &f.Applications[i]
		if err := a.Validate(); err != nil {
			return err
		}
		if apps[a.ID] {
			return fmt.Errorf("duplicate application id %s", a.ID)
		}
		if !internships[a.OpportunityID] {
			return fmt.Errorf("application %s: unknown opportunity %s", a.ID, a.OpportunityID)
		}
		pair := [2]string{a.OpportunityID, a.UserID}
		if pairs[pair] {
			return fmt.Errorf("application %s: user %s already applied to %s", a.ID, a.UserID, a.OpportunityID)
		}
		apps[a.ID] = true
		pairs[pair] = true
	}

	stores := make(map[string]bool, len(f.KiranaStores))
	for i := range f.KiranaStores {
		k := &f.KiranaStores[i]
		if err := k.Validate(); err != nil {
			return err
		}
		if stores[k.ID] {
			return fmt.Errorf("duplicate kirana store id %s", k.ID)
		}
		stores[k.ID] = true
	}

	return nil
}
