// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package projection builds the reduced, read-only views of clinic entities
// served to the public marketing pages. Only active entities appear, sorted
// by their display order; admin-only fields (internal notes, SEO internals,
// version tokens) are stripped. Gaps and duplicates in order values are
// tolerated — the sort is by relative value, not contiguity.
package projection

import (
	"sort"

	"github.com/google/uuid"

	"clinicsite/internal/models"
)

// Category is the public view of a service category.
type Category struct {
	Name        string
	Slug        string
	Description string
}

// Service is the public view of a clinic service.
type Service struct {
	Name             string
	Slug             string
	CategorySlug     string
	ShortDescription string
	FullDescription  string
	Duration         string
	Price            string
	PhotoID          *uuid.UUID
	Practitioners    []uuid.UUID
}

// Staff is the public view of a staff member.
type Staff struct {
	Name        string
	Slug        string
	JobTitle    string
	Credentials string
	Bio         string
	PhotoID     *uuid.UUID
}

// SocialLink is the public view of a social-media link.
type SocialLink struct {
	Platform string
	Label    string
	URL      string
}

// Categories projects the active categories in display order.
func Categories(items []models.Category) []Category {
	sorted := make([]models.Category, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DisplayOrder < sorted[j].DisplayOrder
	})

	var out []Category
	for _, c := range sorted {
		if !c.IsActive {
			continue
		}
		out = append(out, Category{
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
		})
	}
	return out
}

// Services projects the active services in display order. Category slugs are
// resolved through the given lookup; a service whose category is missing or
// inactive still appears (the category reference is soft for rendering — the
// detail page simply omits the category breadcrumb).
func Services(items []models.Service, categories []models.Category) []Service {
	activeCatSlug := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		if c.IsActive {
			activeCatSlug[c.ID] = c.Slug
		}
	}

	sorted := make([]models.Service, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DisplayOrder < sorted[j].DisplayOrder
	})

	var out []Service
	for _, s := range sorted {
		if !s.IsActive {
			continue
		}
		out = append(out, Service{
			Name:             s.Name,
			Slug:             s.Slug,
			CategorySlug:     activeCatSlug[s.CategoryID],
			ShortDescription: s.ShortDescription,
			FullDescription:  s.FullDescription,
			Duration:         s.HumanDuration(),
			Price:            s.HumanPrice(),
			PhotoID:          s.PhotoID,
			Practitioners:    s.Practitioners,
		})
	}
	return out
}

// StaffMembers projects the active staff in display order.
func StaffMembers(items []models.StaffMember) []Staff {
	sorted := make([]models.StaffMember, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DisplayOrder < sorted[j].DisplayOrder
	})

	var out []Staff
	for _, m := range sorted {
		if !m.IsActive {
			continue
		}
		s := Staff{
			Name:     m.Name,
			Slug:     m.Slug,
			JobTitle: m.JobTitle,
			Bio:      m.Bio,
			PhotoID:  m.PhotoID,
		}
		if m.Credentials != nil {
			s.Credentials = *m.Credentials
		}
		out = append(out, s)
	}
	return out
}

// SocialLinks projects the active social links in display order.
func SocialLinks(items []models.SocialLink) []SocialLink {
	sorted := make([]models.SocialLink, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DisplayOrder < sorted[j].DisplayOrder
	})

	var out []SocialLink
	for _, l := range sorted {
		if !l.IsActive {
			continue
		}
		out = append(out, SocialLink{
			Platform: l.Platform,
			Label:    l.Label,
			URL:      l.URL,
		})
	}
	return out
}

// ServicesByCategory groups projected services under their category slug.
// Services without an active category are grouped under the empty slug.
func ServicesByCategory(services []Service) map[string][]Service {
	grouped := make(map[string][]Service)
	for _, s := range services {
		grouped[s.CategorySlug] = append(grouped[s.CategorySlug], s)
	}
	return grouped
}
