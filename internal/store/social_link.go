// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"clinicsite/internal/models"
	"clinicsite/internal/reorder"
)

// SocialLinkStore manages social-media links in the database. Social links
// have no slug — they are footer chrome, not addressable pages.
type SocialLinkStore struct {
	db *sql.DB
}

// NewSocialLinkStore returns a new SocialLinkStore.
func NewSocialLinkStore(db *sql.DB) *SocialLinkStore {
	return &SocialLinkStore{db: db}
}

const socialLinkColumns = `id, platform, label, url, display_order, is_active, version, created_at, updated_at`

func scanSocialLink(scanner interface{ Scan(...any) error }) (*models.SocialLink, error) {
	var l models.SocialLink
	err := scanner.Scan(
		&l.ID, &l.Platform, &l.Label, &l.URL,
		&l.DisplayOrder, &l.IsActive, &l.Version, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// List returns all social links ordered by display_order.
func (s *SocialLinkStore) List() ([]models.SocialLink, error) {
	return s.list(`SELECT ` + socialLinkColumns + ` FROM social_links ORDER BY display_order, platform`)
}

// ListActive returns only active social links ordered by display_order.
func (s *SocialLinkStore) ListActive() ([]models.SocialLink, error) {
	return s.list(`SELECT ` + socialLinkColumns + ` FROM social_links WHERE is_active ORDER BY display_order, platform`)
}

func (s *SocialLinkStore) list(query string) ([]models.SocialLink, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list social links: %w", err)
	}
	defer rows.Close()

	var items []models.SocialLink
	for rows.Next() {
		l, err := scanSocialLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan social link: %w", err)
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

// FindByID retrieves a social link by ID. Returns nil if not found.
func (s *SocialLinkStore) FindByID(id uuid.UUID) (*models.SocialLink, error) {
	row := s.db.QueryRow(`SELECT `+socialLinkColumns+` FROM social_links WHERE id = $1`, id)
	l, err := scanSocialLink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find social link by id: %w", err)
	}
	return l, nil
}

// Create inserts a new social link and returns it. Negative DisplayOrder
// appends after the existing links.
func (s *SocialLinkStore) Create(l *models.SocialLink) (*models.SocialLink, error) {
	if l.DisplayOrder < 0 {
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM social_links`).Scan(&l.DisplayOrder); err != nil {
			return nil, fmt.Errorf("count social links: %w", err)
		}
	}

	row := s.db.QueryRow(`
		INSERT INTO social_links (platform, label, url, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+socialLinkColumns,
		l.Platform, l.Label, l.URL, l.DisplayOrder, l.IsActive,
	)
	result, err := scanSocialLink(row)
	if err != nil {
		return nil, fmt.Errorf("create social link: %w", err)
	}
	return result, nil
}

// Update modifies an existing social link, guarded by Version.
func (s *SocialLinkStore) Update(l *models.SocialLink) error {
	res, err := s.db.Exec(`
		UPDATE social_links SET
			platform = $1, label = $2, url = $3, is_active = $4,
			version = version + 1, updated_at = NOW()
		WHERE id = $5 AND version = $6
	`, l.Platform, l.Label, l.URL, l.IsActive, l.ID, l.Version)
	if err != nil {
		return fmt.Errorf("update social link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update social link rows: %w", err)
	}
	if n == 0 {
		existing, err := s.FindByID(l.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

// SetActive flips only the visibility flag.
func (s *SocialLinkStore) SetActive(id uuid.UUID, active bool) error {
	res, err := s.db.Exec(`
		UPDATE social_links SET is_active = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
	`, active, id)
	if err != nil {
		return fmt.Errorf("set social link active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a social link.
func (s *SocialLinkStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM social_links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete social link: %w", err)
	}
	return nil
}

// Reorder applies new display_order values for multiple social links in a
// single transaction.
func (s *SocialLinkStore) Reorder(items []reorder.OrderUpdate) error {
	return reorderTable(s.db, "social_links", items)
}
