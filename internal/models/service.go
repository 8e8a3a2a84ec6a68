// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service is a treatment offered by the clinic. Every service belongs to
// exactly one category; the database enforces the reference with ON DELETE
// RESTRICT, so a category cannot be removed while services still point at it.
type Service struct {
	ID               uuid.UUID  `json:"id"`
	CategoryID       uuid.UUID  `json:"category_id"`
	Name             string     `json:"name"`
	Slug             string     `json:"slug"`
	ShortDescription string     `json:"short_description"`
	FullDescription  string     `json:"full_description"`
	DurationMinutes  int        `json:"duration_minutes"`
	PriceCents       int        `json:"price_cents"`
	InternalNotes    *string    `json:"internal_notes,omitempty"` // admin-only, never projected
	SEOTitle         *string    `json:"seo_title,omitempty"`
	SEODescription   *string    `json:"seo_description,omitempty"`
	PhotoID          *uuid.UUID `json:"photo_id,omitempty"`
	DisplayOrder     int        `json:"display_order"`
	IsActive         bool       `json:"is_active"`
	Version          int        `json:"version"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Practitioners holds the staff member IDs linked through the
	// service_practitioners join table. Populated by store methods.
	Practitioners []uuid.UUID `json:"practitioners,omitempty"`

	// CategoryName is a virtual field populated by list queries for display.
	CategoryName string `json:"category_name,omitempty"`
}

// HumanPrice formats the price in whole currency units, e.g. "$85".
// A zero price renders as "on request" — some treatments are quoted per case.
func (s *Service) HumanPrice() string {
	if s.PriceCents == 0 {
		return "on request"
	}
	if s.PriceCents%100 == 0 {
		return fmt.Sprintf("$%d", s.PriceCents/100)
	}
	return fmt.Sprintf("$%.2f", float64(s.PriceCents)/100)
}

// HumanDuration formats the session length, e.g. "50 min".
func (s *Service) HumanDuration() string {
	if s.DurationMinutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%d min", s.DurationMinutes)
}
