package store

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"clinicsite/internal/models"
)

// testCategoryID creates a throwaway category for service tests.
func testCategoryID(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	s := NewCategoryStore(db)
	slug := "test-svc-parent-" + uuid.NewString()[:8]
	created, err := s.Create(&models.Category{Name: "Service Parent", Slug: slug, DisplayOrder: -1, IsActive: true})
	if err != nil {
		t.Fatalf("create parent category: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM services WHERE category_id = $1", created.ID)
		cleanCategories(t, db, slug)
	})
	return created.ID
}

func TestServiceStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewServiceStore(db)
	catID := testCategoryID(t, db)

	slug := "test-svc-" + uuid.NewString()[:8]
	notes := "room 2 only"
	created, err := s.Create(&models.Service{
		CategoryID:       catID,
		Name:             "Deep Tissue",
		Slug:             slug,
		ShortDescription: "Focused pressure work.",
		FullDescription:  "A longer description of the deep tissue treatment offered.",
		DurationMinutes:  60,
		PriceCents:       9500,
		InternalNotes:    &notes,
		DisplayOrder:     -1,
		IsActive:         true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Version != 1 {
		t.Errorf("version: got %d, want 1", created.Version)
	}

	found, err := s.FindBySlug(slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil {
		t.Fatal("expected service, got nil")
	}
	if found.PriceCents != 9500 {
		t.Errorf("price_cents: got %d, want 9500", found.PriceCents)
	}
	if found.InternalNotes == nil || *found.InternalNotes != notes {
		t.Errorf("internal_notes not round-tripped: %v", found.InternalNotes)
	}
}

func TestServiceStorePractitionerLinks(t *testing.T) {
	db := testDB(t)
	services := NewServiceStore(db)
	staff := NewStaffStore(db)
	catID := testCategoryID(t, db)

	staffSlug := "test-prac-" + uuid.NewString()[:8]
	svcSlug := "test-linked-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanServices(t, db, svcSlug)
		cleanStaff(t, db, staffSlug)
	})

	member, err := staff.Create(&models.StaffMember{
		Name: "Linked Practitioner", Slug: staffSlug, JobTitle: "RMT",
		Bio: "Test practitioner.", DisplayOrder: -1, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}

	created, err := services.Create(&models.Service{
		CategoryID:       catID,
		Name:             "Linked Service",
		Slug:             svcSlug,
		ShortDescription: "Has a practitioner.",
		FullDescription:  "A service with a linked practitioner for the join table test.",
		DurationMinutes:  45,
		DisplayOrder:     -1,
		Practitioners:    []uuid.UUID{member.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := services.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(found.Practitioners) != 1 || found.Practitioners[0] != member.ID {
		t.Errorf("practitioners: got %v, want [%s]", found.Practitioners, member.ID)
	}

	// Clearing the links on update removes the join rows.
	found.Practitioners = nil
	if err := services.Update(found); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := services.FindByID(created.ID)
	if len(again.Practitioners) != 0 {
		t.Errorf("expected no practitioners after update, got %v", again.Practitioners)
	}
}

func TestServiceStoreDeleteCascadesLinks(t *testing.T) {
	db := testDB(t)
	services := NewServiceStore(db)
	staff := NewStaffStore(db)
	catID := testCategoryID(t, db)

	staffSlug := "test-cascade-" + uuid.NewString()[:8]
	svcSlug := "test-cascade-svc-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanServices(t, db, svcSlug)
		cleanStaff(t, db, staffSlug)
	})

	member, err := staff.Create(&models.StaffMember{
		Name: "Cascade Target", Slug: staffSlug, JobTitle: "PT",
		Bio: "Test.", DisplayOrder: -1,
	})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	created, err := services.Create(&models.Service{
		CategoryID: catID, Name: "Doomed", Slug: svcSlug,
		ShortDescription: "Will be deleted.",
		FullDescription:  "A service created only to be deleted by this test.",
		DurationMinutes:  30, DisplayOrder: -1,
		Practitioners: []uuid.UUID{member.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := services.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var n int
	db.QueryRow("SELECT COUNT(*) FROM service_practitioners WHERE service_id = $1", created.ID).Scan(&n)
	if n != 0 {
		t.Errorf("join rows survived service deletion: %d", n)
	}
	// The staff member itself is untouched.
	if m, _ := staff.FindByID(member.ID); m == nil {
		t.Error("staff member deleted by service cascade")
	}
}

func TestServiceStoreListActiveOrder(t *testing.T) {
	db := testDB(t)
	s := NewServiceStore(db)
	catID := testCategoryID(t, db)

	slugs := make([]string, 3)
	for i, order := range []int{302, 300, 301} {
		slugs[i] = "test-order-" + uuid.NewString()[:8]
		_, err := s.Create(&models.Service{
			CategoryID: catID, Name: "Ordered", Slug: slugs[i],
			ShortDescription: "Ordering test.",
			FullDescription:  "A service used to verify active list ordering.",
			DurationMinutes:  30, DisplayOrder: order, IsActive: true,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	t.Cleanup(func() { cleanServices(t, db, slugs...) })

	items, err := s.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	prev := -1
	for _, sv := range items {
		if sv.DisplayOrder < prev {
			t.Fatalf("list not sorted by display_order: %d after %d", sv.DisplayOrder, prev)
		}
		prev = sv.DisplayOrder
	}
}
