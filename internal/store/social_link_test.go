package store

import (
	"testing"

	"github.com/google/uuid"

	"clinicsite/internal/models"
)

func TestSocialLinkStoreCRUD(t *testing.T) {
	db := testDB(t)
	s := NewSocialLinkStore(db)

	url := "https://instagram.com/test-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanSocialLinks(t, db, url) })

	created, err := s.Create(&models.SocialLink{
		Platform:     "instagram",
		Label:        "Follow us",
		URL:          url,
		DisplayOrder: -1,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}

	created.Label = "Clinic on Instagram"
	if err := s.Update(created); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Label != "Clinic on Instagram" {
		t.Errorf("label: got %q", found.Label)
	}
	if found.Version != 2 {
		t.Errorf("version: got %d, want 2", found.Version)
	}

	if err := s.SetActive(created.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	active, err := s.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	for _, l := range active {
		if l.ID == created.ID {
			t.Error("inactive link returned by ListActive")
		}
	}

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gone, _ := s.FindByID(created.ID); gone != nil {
		t.Error("expected nil after delete")
	}
}
