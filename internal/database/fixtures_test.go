package database

import (
	"reflect"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/villagestay/villagestay/internal/models"
	"github.com/villagestay/villagestay/internal/seed"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// Each connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	return db
}

func TestSaveAndLoadFixtures(t *testing.T) {
	db := newTestDB(t)
	want, err := seed.Embedded()
	if err != nil {
		t.Fatal(err)
	}
	want.Applications = []models.Application{{
		ID:               "app-1",
		OpportunityID:    "intern-1",
		OpportunityTitle: "Homestay Digital Marketing",
		VillageName:      "Mawali",
		UserID:           "owner1",
		UserName:         "Owner1",
		Status:           models.ApplicationStatusUnderReview,
		AppliedAt:        time.Date(2024, 8, 2, 8, 30, 0, 0, time.UTC),
	}}

	if err := SaveFixtures(db, want); err != nil {
		t.Fatalf("SaveFixtures() error = %v", err)
	}
	got, err := LoadFixtures(db)
	if err != nil {
		t.Fatalf("LoadFixtures() error = %v", err)
	}

	if len(got.Villages) != len(want.Villages) {
		t.Fatalf("len(Villages) = %d, want %d", len(got.Villages), len(want.Villages))
	}
	for i := range want.Villages {
		g, w := got.Villages[i], want.Villages[i]
		if len(g.CommunityPosts) != len(w.CommunityPosts) {
			t.Fatalf("village %s has %d posts, want %d", w.ID, len(g.CommunityPosts), len(w.CommunityPosts))
		}
		for j := range w.CommunityPosts {
			gp, wp := g.CommunityPosts[j], w.CommunityPosts[j]
			if !gp.CreatedAt.Equal(wp.CreatedAt) {
				t.Errorf("post %s/%s time = %v, want %v", w.ID, wp.ID, gp.CreatedAt, wp.CreatedAt)
			}
			gp.CreatedAt, wp.CreatedAt = time.Time{}, time.Time{}
			if gp != wp {
				t.Errorf("post %s/%s = %+v, want %+v", w.ID, wp.ID, gp, wp)
			}
		}
		g.CommunityPosts, w.CommunityPosts = nil, nil
		if !reflect.DeepEqual(g, w) {
			t.Errorf("village %s differs:\n got %+v\nwant %+v", w.ID, g, w)
		}
	}

	if !reflect.DeepEqual(got.Internships, want.Internships) {
		t.Errorf("internships differ:\n got %+v\nwant %+v", got.Internships, want.Internships)
	}
	if !reflect.DeepEqual(got.Bookings, want.Bookings) {
		t.Errorf("bookings differ")
	}
	if !reflect.DeepEqual(got.KiranaStores, want.KiranaStores) {
		t.Errorf("kirana stores differ")
	}
	if len(got.Applications) != 1 || got.Applications[0].UserID != "owner1" ||
		!got.Applications[0].AppliedAt.Equal(want.Applications[0].AppliedAt) {
		t.Errorf("applications = %+v", got.Applications)
	}
}

func TestSaveFixtures_Replaces(t *testing.T) {
	db := newTestDB(t)
	full, err := seed.Embedded()
	if err != nil {
		t.Fatal(err)
	}
	if err := SaveFixtures(db, full); err != nil {
		t.Fatal(err)
	}

	small := models.Fixtures{Villages: []models.Village{{ID: "mawali", Name: "Mawali"}}}
	if err := SaveFixtures(db, small); err != nil {
		t.Fatalf("SaveFixtures() error = %v", err)
	}

	got, err := LoadFixtures(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Villages) != 1 || len(got.Villages[0].CommunityPosts) != 0 {
		t.Errorf("villages = %+v, want only the new one", got.Villages)
	}
	if len(got.Bookings) != 0 || len(got.Internships) != 0 {
		t.Errorf("old rows survived: %d bookings, %d internships", len(got.Bookings), len(got.Internships))
	}
}

func TestSaveFixtures_RejectsInvalid(t *testing.T) {
	db := newTestDB(t)
	bad := models.Fixtures{Villages: []models.Village{{ID: "a", Name: "A"}, {ID: "a", Name: "A"}}}

	if err := SaveFixtures(db, bad); err == nil {
		t.Fatal("SaveFixtures() expected error, got nil")
	}
	var count int64
	db.Model(&VillageRow{}).Count(&count)
	if count != 0 {
		t.Errorf("village rows = %d, want 0", count)
	}
}

func TestLoadFixtures_Empty(t *testing.T) {
	got, err := LoadFixtures(newTestDB(t))
	if err != nil {
		t.Fatalf("LoadFixtures() error = %v", err)
	}
	if len(got.Villages) != 0 {
		t.Errorf("Villages = %v, want empty", got.Villages)
	}
}
