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
	"clinicsite/internal/slug"
)

// ServiceStore manages clinic services in the database, including the
// practitioner links in the service_practitioners join table.
type ServiceStore struct {
	db *sql.DB
}

// NewServiceStore returns a new ServiceStore.
func NewServiceStore(db *sql.DB) *ServiceStore {
	return &ServiceStore{db: db}
}

const serviceColumns = `id, category_id, name, slug, short_description, full_description,
	duration_minutes, price_cents, internal_notes, seo_title, seo_description,
	photo_id, display_order, is_active, version, created_at, updated_at`

func scanService(scanner interface{ Scan(...any) error }) (*models.Service, error) {
	var s models.Service
	err := scanner.Scan(
		&s.ID, &s.CategoryID, &s.Name, &s.Slug, &s.ShortDescription, &s.FullDescription,
		&s.DurationMinutes, &s.PriceCents, &s.InternalNotes, &s.SEOTitle, &s.SEODescription,
		&s.PhotoID, &s.DisplayOrder, &s.IsActive, &s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all services ordered by display_order, with the category name
// resolved for display and practitioner links attached.
func (s *ServiceStore) List() ([]models.Service, error) {
	rows, err := s.db.Query(`
		SELECT sv.id, sv.category_id, sv.name, sv.slug, sv.short_description, sv.full_description,
		       sv.duration_minutes, sv.price_cents, sv.internal_notes, sv.seo_title, sv.seo_description,
		       sv.photo_id, sv.display_order, sv.is_active, sv.version, sv.created_at, sv.updated_at,
		       c.name AS category_name
		FROM services sv
		JOIN categories c ON c.id = sv.category_id
		ORDER BY sv.display_order, sv.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var items []models.Service
	for rows.Next() {
		var sv models.Service
		err := rows.Scan(
			&sv.ID, &sv.CategoryID, &sv.Name, &sv.Slug, &sv.ShortDescription, &sv.FullDescription,
			&sv.DurationMinutes, &sv.PriceCents, &sv.InternalNotes, &sv.SEOTitle, &sv.SEODescription,
			&sv.PhotoID, &sv.DisplayOrder, &sv.IsActive, &sv.Version, &sv.CreatedAt, &sv.UpdatedAt,
			&sv.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		items = append(items, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s.attachPractitioners(items)
}

// ListActive returns only active services ordered by display_order.
// Feeds the public projection.
func (s *ServiceStore) ListActive() ([]models.Service, error) {
	rows, err := s.db.Query(`
		SELECT ` + serviceColumns + `
		FROM services
		WHERE is_active
		ORDER BY display_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list active services: %w", err)
	}
	defer rows.Close()

	var items []models.Service
	for rows.Next() {
		sv, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		items = append(items, *sv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s.attachPractitioners(items)
}

// ListByCategory returns all services under one category, for the admin
// category detail view.
func (s *ServiceStore) ListByCategory(categoryID uuid.UUID) ([]models.Service, error) {
	rows, err := s.db.Query(`
		SELECT `+serviceColumns+`
		FROM services
		WHERE category_id = $1
		ORDER BY display_order, name
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list services by category: %w", err)
	}
	defer rows.Close()

	var items []models.Service
	for rows.Next() {
		sv, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		items = append(items, *sv)
	}
	return items, rows.Err()
}

// FindByID retrieves a service by ID with its practitioner links.
// Returns nil if not found.
func (s *ServiceStore) FindByID(id uuid.UUID) (*models.Service, error) {
	row := s.db.QueryRow(`SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	sv, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find service by id: %w", err)
	}
	sv.Practitioners, err = s.practitionerIDs(sv.ID)
	if err != nil {
		return nil, err
	}
	return sv, nil
}

// FindBySlug retrieves a service by slug with its practitioner links.
// Returns nil if not found.
func (s *ServiceStore) FindBySlug(serviceSlug string) (*models.Service, error) {
	row := s.db.QueryRow(`SELECT `+serviceColumns+` FROM services WHERE slug = $1`, serviceSlug)
	sv, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find service by slug: %w", err)
	}
	sv.Practitioners, err = s.practitionerIDs(sv.ID)
	if err != nil {
		return nil, err
	}
	return sv, nil
}

// Create inserts a new service and its practitioner links in one
// transaction. Empty slug is derived from the name; negative DisplayOrder
// appends after the existing services.
func (s *ServiceStore) Create(sv *models.Service) (*models.Service, error) {
	if sv.Slug == "" {
		sv.Slug = slug.Generate(sv.Name)
	}
	if sv.DisplayOrder < 0 {
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM services`).Scan(&sv.DisplayOrder); err != nil {
			return nil, fmt.Errorf("count services: %w", err)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		INSERT INTO services (category_id, name, slug, short_description, full_description,
			duration_minutes, price_cents, internal_notes, seo_title, seo_description,
			photo_id, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+serviceColumns,
		sv.CategoryID, sv.Name, sv.Slug, sv.ShortDescription, sv.FullDescription,
		sv.DurationMinutes, sv.PriceCents, sv.InternalNotes, sv.SEOTitle, sv.SEODescription,
		sv.PhotoID, sv.DisplayOrder, sv.IsActive,
	)
	result, err := scanService(row)
	if err != nil {
		return nil, fmt.Errorf("create service: %w", mapConstraintErr(err))
	}

	if err := setPractitioners(tx, result.ID, sv.Practitioners); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create service: %w", err)
	}
	result.Practitioners = sv.Practitioners
	return result, nil
}

// Update modifies an existing service and replaces its practitioner links.
// The service's Version must match the stored row; a mismatch returns
// ErrVersionConflict.
func (s *ServiceStore) Update(sv *models.Service) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE services SET
			category_id = $1, name = $2, slug = $3, short_description = $4,
			full_description = $5, duration_minutes = $6, price_cents = $7,
			internal_notes = $8, seo_title = $9, seo_description = $10,
			photo_id = $11, is_active = $12,
			version = version + 1, updated_at = NOW()
		WHERE id = $13 AND version = $14
	`, sv.CategoryID, sv.Name, sv.Slug, sv.ShortDescription,
		sv.FullDescription, sv.DurationMinutes, sv.PriceCents,
		sv.InternalNotes, sv.SEOTitle, sv.SEODescription,
		sv.PhotoID, sv.IsActive, sv.ID, sv.Version)
	if err != nil {
		return fmt.Errorf("update service: %w", mapConstraintErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update service rows: %w", err)
	}
	if n == 0 {
		existing, err := s.FindByID(sv.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		return ErrVersionConflict
	}

	if err := setPractitioners(tx, sv.ID, sv.Practitioners); err != nil {
		return err
	}
	return tx.Commit()
}

// SetActive flips only the visibility flag.
func (s *ServiceStore) SetActive(id uuid.UUID, active bool) error {
	res, err := s.db.Exec(`
		UPDATE services SET is_active = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
	`, active, id)
	if err != nil {
		return fmt.Errorf("set service active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a service. Practitioner links go with it (ON DELETE
// CASCADE on the join table). Remaining services keep their order values.
func (s *ServiceStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}

// Reorder applies new display_order values for multiple services in a
// single transaction.
func (s *ServiceStore) Reorder(items []reorder.OrderUpdate) error {
	return reorderTable(s.db, "services", items)
}

// setPractitioners replaces the practitioner links for a service inside the
// caller's transaction.
func setPractitioners(tx *sql.Tx, serviceID uuid.UUID, staffIDs []uuid.UUID) error {
	if _, err := tx.Exec(`DELETE FROM service_practitioners WHERE service_id = $1`, serviceID); err != nil {
		return fmt.Errorf("clear practitioners: %w", err)
	}
	for _, staffID := range staffIDs {
		_, err := tx.Exec(`
			INSERT INTO service_practitioners (service_id, staff_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, serviceID, staffID)
		if err != nil {
			return fmt.Errorf("link practitioner %s: %w", staffID, mapConstraintErr(err))
		}
	}
	return nil
}

// practitionerIDs returns the staff IDs linked to one service.
func (s *ServiceStore) practitionerIDs(serviceID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Query(`
		SELECT staff_id FROM service_practitioners WHERE service_id = $1
	`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list practitioners: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan practitioner: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// attachPractitioners loads the practitioner links for a batch of services
// with one query instead of one per service.
func (s *ServiceStore) attachPractitioners(items []models.Service) ([]models.Service, error) {
	if len(items) == 0 {
		return items, nil
	}

	rows, err := s.db.Query(`SELECT service_id, staff_id FROM service_practitioners`)
	if err != nil {
		return nil, fmt.Errorf("list practitioners: %w", err)
	}
	defer rows.Close()

	links := make(map[uuid.UUID][]uuid.UUID)
	for rows.Next() {
		var serviceID, staffID uuid.UUID
		if err := rows.Scan(&serviceID, &staffID); err != nil {
			return nil, fmt.Errorf("scan practitioner link: %w", err)
		}
		links[serviceID] = append(links[serviceID], staffID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Practitioners = links[items[i].ID]
	}
	return items, nil
}
