package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"clinicsite/internal/models"
	"clinicsite/internal/reorder"
)

func TestStaffStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewStaffStore(db)

	slug := "test-staff-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanStaff(t, db, slug) })

	creds := "RMT, BSc Kin"
	created, err := s.Create(&models.StaffMember{
		Name:         "Test Practitioner",
		Slug:         slug,
		JobTitle:     "Massage Therapist",
		Credentials:  &creds,
		Bio:          "Bio written by a test.",
		DisplayOrder: -1,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := s.FindBySlug(slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil {
		t.Fatal("expected staff member, got nil")
	}
	if found.ID != created.ID {
		t.Errorf("id: got %s, want %s", found.ID, created.ID)
	}
	if found.Credentials == nil || *found.Credentials != creds {
		t.Errorf("credentials not round-tripped: %v", found.Credentials)
	}
}

func TestStaffStoreVersionConflict(t *testing.T) {
	db := testDB(t)
	s := NewStaffStore(db)

	slug := "test-staff-conflict-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanStaff(t, db, slug) })

	created, err := s.Create(&models.StaffMember{
		Name: "Contested", Slug: slug, JobTitle: "PT", Bio: "x", DisplayOrder: -1,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first := *created
	first.JobTitle = "Senior PT"
	if err := s.Update(&first); err != nil {
		t.Fatalf("first Update: %v", err)
	}

	second := *created
	second.JobTitle = "Junior PT"
	if err := s.Update(&second); !errors.Is(err, ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict, got %v", err)
	}
}

func TestStaffStoreReorder(t *testing.T) {
	db := testDB(t)
	s := NewStaffStore(db)

	slugs := make([]string, 2)
	ids := make([]uuid.UUID, 2)
	for i := range slugs {
		slugs[i] = "test-staff-reorder-" + uuid.NewString()[:8]
		created, err := s.Create(&models.StaffMember{
			Name: "Swap", Slug: slugs[i], JobTitle: "RMT", Bio: "x", DisplayOrder: 400 + i,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids[i] = created.ID
	}
	t.Cleanup(func() { cleanStaff(t, db, slugs...) })

	err := s.Reorder([]reorder.OrderUpdate{
		{ID: ids[0], Order: 401},
		{ID: ids[1], Order: 400},
	})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	a, _ := s.FindByID(ids[0])
	b, _ := s.FindByID(ids[1])
	if a.DisplayOrder != 401 || b.DisplayOrder != 400 {
		t.Errorf("swap not persisted: %d, %d", a.DisplayOrder, b.DisplayOrder)
	}
}
