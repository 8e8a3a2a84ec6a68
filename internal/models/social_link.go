// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SocialLink is a social-media profile rendered in the site footer and on
// the contact page.
type SocialLink struct {
	ID           uuid.UUID `json:"id"`
	Platform     string    `json:"platform"` // "instagram", "facebook", ...
	Label        string    `json:"label"`
	URL          string    `json:"url"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
