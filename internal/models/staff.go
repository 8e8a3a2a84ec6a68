// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// StaffMember is a practitioner or employee shown on the team page.
type StaffMember struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	JobTitle     string     `json:"job_title"`
	Credentials  *string    `json:"credentials,omitempty"` // e.g. "RMT, BSc Kin"
	Bio          string     `json:"bio"`
	PhotoID      *uuid.UUID `json:"photo_id,omitempty"`
	DisplayOrder int        `json:"display_order"`
	IsActive     bool       `json:"is_active"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
