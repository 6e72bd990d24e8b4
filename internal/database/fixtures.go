package database

import (
	"fmt"

	"github.com/villagestay/villagestay/internal/models"
	"github.com/villagestay/villagestay/pkg/logger"
	"gorm.io/gorm"
)

// LoadFixtures reads every fixture table in stored order and validates the result.
func LoadFixtures(db *gorm.DB) (models.Fixtures, error) {
	var (
		villageRows []VillageRow
		postRows    []CommunityPostRow
		internRows  []InternshipRow
		bookingRows []BookingRow
		appRows     []ApplicationRow
		storeRows   []KiranaStoreRow
	)

	for _, q := range []struct {
		table string
		dest  interface{}
	}{
		{"villages", &villageRows},
		{"community_posts", &postRows},
		{"internships", &internRows},
		{"bookings", &bookingRows},
		{"applications", &appRows},
		{"kirana_stores", &storeRows},
	} {
		if err := db.Order("position").Find(q.dest).Error; err != nil {
			return models.Fixtures{}, fmt.Errorf("failed to load %s: %w", q.table, err)
		}
	}

	var f models.Fixtures
	index := make(map[string]int, len(villageRows))
	for _, r := range villageRows {
		index[r.ID] = len(f.Villages)
		f.Villages = append(f.Villages, models.Village{
			ID:                  r.ID,
			Name:                r.Name,
			Location:            r.Location,
			ShortDescription:    r.ShortDescription,
			LongDescription:     r.LongDescription,
			MainImage:           r.MainImage,
			VRImages:            r.VRImages,
			Coordinates:         models.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude},
			InstagramPosts:      r.InstagramPosts,
			CulturalAttractions: r.CulturalAttractions,
			UniqueOfferings:     r.UniqueOfferings,
			Accommodations:      r.Accommodations,
			CommunityPosts:      []models.CommunityPost{},
		})
	}
	for _, r := range postRows {
		i, ok := index[r.VillageID]
		if !ok {
			return models.Fixtures{}, fmt.Errorf("community post %s: unknown village %s", r.ID, r.VillageID)
		}
		f.Villages[i].CommunityPosts = append(f.Villages[i].CommunityPosts, models.CommunityPost{
			ID:        r.ID,
			Author:    r.Author,
			AvatarURL: r.AvatarURL,
			Message:   r.Message,
			ImageURL:  r.ImageURL,
			VideoURL:  r.VideoURL,
			CreatedAt: r.PostedAt.UTC(),
		})
	}
	for _, r := range internRows {
		f.Internships = append(f.Internships, models.Internship{
			ID:               r.ID,
			Title:            r.Title,
			VillageID:        r.VillageID,
			VillageName:      r.VillageName,
			Category:         r.Category,
			Duration:         r.Duration,
			ShortDescription: r.ShortDescription,
			LongDescription:  r.LongDescription,
			Responsibilities: r.Responsibilities,
			Benefits:         r.Benefits,
			SDGs:             r.SDGs,
		})
	}
	for _, r := range bookingRows {
		f.Bookings = append(f.Bookings, models.Booking{
			ID:          r.ID,
			VillageName: r.VillageName,
			GuestName:   r.GuestName,
			OwnerID:     r.OwnerID,
			CheckIn:     r.CheckIn,
			CheckOut:    r.CheckOut,
			Status:      r.Status,
		})
	}
	for _, r := range appRows {
		f.Applications = append(f.Applications, models.Application{
			ID:               r.ID,
			OpportunityID:    r.OpportunityID,
			OpportunityTitle: r.OpportunityTitle,
			VillageName:      r.VillageName,
			UserID:           r.UserID,
			UserName:         r.UserName,
			Status:           r.Status,
			AppliedAt:        r.AppliedAt.UTC(),
		})
	}
	for _, r := range storeRows {
		f.KiranaStores = append(f.KiranaStores, models.KiranaStore{
			ID:          r.ID,
			Name:        r.Name,
			VillageName: r.VillageName,
			Description: r.Description,
		})
	}

	if err := f.Validate(); err != nil {
		return models.Fixtures{}, fmt.Errorf("invalid fixtures in database: %w", err)
	}

	logger.Info("Fixtures loaded from database", "villages", len(f.Villages), "internships", len(f.Internships),
		"bookings", len(f.Bookings), "kirana_stores", len(f.KiranaStores))
	return f, nil
}

// SaveFixtures validates f and replaces the contents of every fixture table in one transaction.
func SaveFixtures(db *gorm.DB, f models.Fixtures) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("invalid fixtures: %w", err)
	}

	villages := make([]VillageRow, 0, len(f.Villages))
	var posts []CommunityPostRow
	for i, v := range f.Villages {
		villages = append(villages, VillageRow{
			ID:                  v.ID,
			Position:            i,
			Name:                v.Name,
			Location:            v.Location,
			ShortDescription:    v.ShortDescription,
			LongDescription:     v.LongDescription,
			MainImage:           v.MainImage,
			VRImages:            v.VRImages,
			Latitude:            v.Coordinates.Latitude,
			Longitude:           v.Coordinates.Longitude,
			InstagramPosts:      v.InstagramPosts,
			CulturalAttractions: v.CulturalAttractions,
			UniqueOfferings:     v.UniqueOfferings,
			Accommodations:      v.Accommodations,
		})
		for _, p := range v.CommunityPosts {
			posts = append(posts, CommunityPostRow{
				VillageID: v.ID,
				ID:        p.ID,
				Position:  len(posts),
				Author:    p.Author,
				AvatarURL: p.AvatarURL,
				Message:   p.Message,
				ImageURL:  p.ImageURL,
				VideoURL:  p.VideoURL,
				PostedAt:  p.CreatedAt.UTC(),
			})
		}
	}

	internships := make([]InternshipRow, 0, len(f.Internships))
	for i, in := range f.Internships {
		internships = append(internships, InternshipRow{
			ID:               in.ID,
			Position:         i,
			Title:            in.Title,
			VillageID:        in.VillageID,
			VillageName:      in.VillageName,
			Category:         in.Category,
			Duration:         in.Duration,
			ShortDescription: in.ShortDescription,
			LongDescription:  in.LongDescription,
			Responsibilities: in.Responsibilities,
			Benefits:         in.Benefits,
			SDGs:             in.SDGs,
		})
	}

	bookings := make([]BookingRow, 0, len(f.Bookings))
	for i, b := range f.Bookings {
		bookings = append(bookings, BookingRow{
			ID:          b.ID,
			Position:    i,
			VillageName: b.VillageName,
			GuestName:   b.GuestName,
			OwnerID:     b.OwnerID,
			CheckIn:     b.CheckIn,
			CheckOut:    b.CheckOut,
			Status:      b.Status,
		})
	}

	apps := make([]ApplicationRow, 0, len(f.Applications))
	for i, a := range f.Applications {
		apps = append(apps, ApplicationRow{
			ID:               a.ID,
			Position:         i,
			OpportunityID:    a.OpportunityID,
			UserID:           a.UserID,
			OpportunityTitle: a.OpportunityTitle,
			VillageName:      a.VillageName,
			UserName:         a.UserName,
			Status:           a.Status,
			AppliedAt:        a.AppliedAt.UTC(),
		})
	}

	stores := make([]KiranaStoreRow, 0, len(f.KiranaStores))
	for i, k := range f.KiranaStores {
		stores = append(stores, KiranaStoreRow{
			ID:          k.ID,
			Position:    i,
			Name:        k.Name,
			VillageName: k.VillageName,
			Description: k.Description,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// Children first so a foreign key added later cannot block the wipe.
		for _, model := range []interface{}{
			&CommunityPostRow{}, &ApplicationRow{}, &VillageRow{},
			&InternshipRow{}, &BookingRow{}, &KiranaStoreRow{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}

		for _, batch := range []struct {
			n    int
			rows interface{}
		}{
			{len(villages), &villages},
			{len(posts), &posts},
			{len(internships), &internships},
			{len(bookings), &bookings},
			{len(apps), &apps},
			{len(stores), &stores},
		} {
			if batch.n == 0 {
				continue
			}
			if err := tx.CreateInBatches(batch.rows, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save fixtures: %w", err)
	}

	logger.Info("Fixtures saved to database", "villages", len(villages), "posts", len(posts),
		"internships", len(internships), "bookings", len(bookings), "kirana_stores", len(stores))
	return nil
}
