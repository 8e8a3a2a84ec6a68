package projection

import (
	"testing"

	"github.com/google/uuid"

	"clinicsite/internal/models"
)

func cat(name string, order int, active bool) models.Category {
	return models.Category{
		ID:           uuid.New(),
		Name:         name,
		Slug:         name,
		DisplayOrder: order,
		IsActive:     active,
	}
}

// TestCategories_FiltersInactive verifies an inactive entity never appears
// in the projection regardless of its other fields, and an active one always
// does.
func TestCategories_FiltersInactive(t *testing.T) {
	items := []models.Category{
		cat("massage", 0, true),
		cat("physio", 1, false),
		cat("chiro", 2, true),
	}

	got := Categories(items)
	if len(got) != 2 {
		t.Fatalf("got %d categories, want 2", len(got))
	}
	for _, c := range got {
		if c.Slug == "physio" {
			t.Error("inactive category appeared in the projection")
		}
	}
}

// TestCategories_SortedByOrder verifies ascending order regardless of input
// order.
func TestCategories_SortedByOrder(t *testing.T) {
	items := []models.Category{
		cat("third", 7, true),
		cat("first", 0, true),
		cat("second", 3, true),
	}

	got := Categories(items)
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if got[i].Slug != w {
			t.Errorf("position %d: got %q, want %q", i, got[i].Slug, w)
		}
	}
}

// TestCategories_GapsTolerated verifies that deleting an item (leaving a gap
// in order values) keeps the survivors in ascending order: [0,1,3,4] renders
// in the same relative sequence.
func TestCategories_GapsTolerated(t *testing.T) {
	items := []models.Category{
		cat("a", 0, true),
		cat("b", 1, true),
		cat("d", 3, true),
		cat("e", 4, true),
	}

	got := Categories(items)
	want := []string{"a", "b", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("got %d items, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Slug != w {
			t.Errorf("position %d: got %q, want %q", i, got[i].Slug, w)
		}
	}
}

// TestCategories_Empty verifies the projection of no data is an empty list,
// not an error — public pages must render gracefully with zero entities.
func TestCategories_Empty(t *testing.T) {
	if got := Categories(nil); len(got) != 0 {
		t.Errorf("Categories(nil) = %d items, want 0", len(got))
	}
}

func TestServices_StripsAdminFields(t *testing.T) {
	notes := "bill under code 1234"
	seo := "internal seo experiment"
	catID := uuid.New()
	items := []models.Service{{
		ID:               uuid.New(),
		CategoryID:       catID,
		Name:             "Deep Tissue",
		Slug:             "deep-tissue",
		ShortDescription: "Focused pressure work.",
		FullDescription:  "A long description of the treatment.",
		DurationMinutes:  60,
		PriceCents:       9500,
		InternalNotes:    &notes,
		SEOTitle:         &seo,
		IsActive:         true,
		Version:          4,
	}}
	cats := []models.Category{{ID: catID, Slug: "massage", IsActive: true}}

	got := Services(items, cats)
	if len(got) != 1 {
		t.Fatalf("got %d services, want 1", len(got))
	}
	s := got[0]
	if s.Name != "Deep Tissue" || s.Slug != "deep-tissue" {
		t.Errorf("unexpected identity fields: %+v", s)
	}
	if s.CategorySlug != "massage" {
		t.Errorf("CategorySlug = %q, want %q", s.CategorySlug, "massage")
	}
	if s.Price != "$95" {
		t.Errorf("Price = %q, want %q", s.Price, "$95")
	}
	if s.Duration != "60 min" {
		t.Errorf("Duration = %q, want %q", s.Duration, "60 min")
	}
	// The view type has no notes/SEO/version fields at all; this test pins
	// the mapping so they can't sneak back in through a refactor.
}

func TestServices_InactiveCategoryDropsBreadcrumbOnly(t *testing.T) {
	catID := uuid.New()
	items := []models.Service{{
		ID:         uuid.New(),
		CategoryID: catID,
		Name:       "Orphaned",
		Slug:       "orphaned",
		IsActive:   true,
	}}
	cats := []models.Category{{ID: catID, Slug: "hidden", IsActive: false}}

	got := Services(items, cats)
	if len(got) != 1 {
		t.Fatalf("service under inactive category should still project, got %d", len(got))
	}
	if got[0].CategorySlug != "" {
		t.Errorf("CategorySlug = %q, want empty for inactive category", got[0].CategorySlug)
	}
}

func TestStaffMembers_FilterAndSort(t *testing.T) {
	creds := "RMT"
	items := []models.StaffMember{
		{ID: uuid.New(), Name: "Cara", Slug: "cara", DisplayOrder: 2, IsActive: true},
		{ID: uuid.New(), Name: "Ben", Slug: "ben", DisplayOrder: 0, IsActive: false},
		{ID: uuid.New(), Name: "Ana", Slug: "ana", DisplayOrder: 1, IsActive: true, Credentials: &creds},
	}

	got := StaffMembers(items)
	if len(got) != 2 {
		t.Fatalf("got %d staff, want 2", len(got))
	}
	if got[0].Slug != "ana" || got[1].Slug != "cara" {
		t.Errorf("unexpected order: %q, %q", got[0].Slug, got[1].Slug)
	}
	if got[0].Credentials != "RMT" {
		t.Errorf("Credentials = %q, want RMT", got[0].Credentials)
	}
}

func TestSocialLinks_FilterAndSort(t *testing.T) {
	items := []models.SocialLink{
		{ID: uuid.New(), Platform: "facebook", URL: "https://fb.example", DisplayOrder: 1, IsActive: true},
		{ID: uuid.New(), Platform: "x", URL: "https://x.example", DisplayOrder: 2, IsActive: false},
		{ID: uuid.New(), Platform: "instagram", URL: "https://ig.example", DisplayOrder: 0, IsActive: true},
	}

	got := SocialLinks(items)
	if len(got) != 2 {
		t.Fatalf("got %d links, want 2", len(got))
	}
	if got[0].Platform != "instagram" || got[1].Platform != "facebook" {
		t.Errorf("unexpected order: %q, %q", got[0].Platform, got[1].Platform)
	}
}

func TestServicesByCategory_Groups(t *testing.T) {
	services := []Service{
		{Slug: "a", CategorySlug: "massage"},
		{Slug: "b", CategorySlug: "physio"},
		{Slug: "c", CategorySlug: "massage"},
		{Slug: "d", CategorySlug: ""},
	}

	grouped := ServicesByCategory(services)
	if len(grouped["massage"]) != 2 {
		t.Errorf("massage group = %d, want 2", len(grouped["massage"]))
	}
	if len(grouped["physio"]) != 1 {
		t.Errorf("physio group = %d, want 1", len(grouped["physio"]))
	}
	if len(grouped[""]) != 1 {
		t.Errorf("uncategorised group = %d, want 1", len(grouped[""]))
	}
}
