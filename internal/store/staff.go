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

// StaffStore manages staff members in the database.
type StaffStore struct {
	db *sql.DB
}

// NewStaffStore returns a new StaffStore.
func NewStaffStore(db *sql.DB) *StaffStore {
	return &StaffStore{db: db}
}

const staffColumns = `id, name, slug, job_title, credentials, bio, photo_id,
	display_order, is_active, version, created_at, updated_at`

func scanStaff(scanner interface{ Scan(...any) error }) (*models.StaffMember, error) {
	var m models.StaffMember
	err := scanner.Scan(
		&m.ID, &m.Name, &m.Slug, &m.JobTitle, &m.Credentials, &m.Bio, &m.PhotoID,
		&m.DisplayOrder, &m.IsActive, &m.Version, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns all staff members ordered by display_order.
func (s *StaffStore) List() ([]models.StaffMember, error) {
	return s.list(`SELECT ` + staffColumns + ` FROM staff_members ORDER BY display_order, name`)
}

// ListActive returns only active staff members ordered by display_order.
func (s *StaffStore) ListActive() ([]models.StaffMember, error) {
	return s.list(`SELECT ` + staffColumns + ` FROM staff_members WHERE is_active ORDER BY display_order, name`)
}

func (s *StaffStore) list(query string) ([]models.StaffMember, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var items []models.StaffMember
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staff member: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// FindByID retrieves a staff member by ID. Returns nil if not found.
func (s *StaffStore) FindByID(id uuid.UUID) (*models.StaffMember, error) {
	row := s.db.QueryRow(`SELECT `+staffColumns+` FROM staff_members WHERE id = $1`, id)
	m, err := scanStaff(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find staff by id: %w", err)
	}
	return m, nil
}

// FindBySlug retrieves a staff member by slug. Returns nil if not found.
func (s *StaffStore) FindBySlug(staffSlug string) (*models.StaffMember, error) {
	row := s.db.QueryRow(`SELECT `+staffColumns+` FROM staff_members WHERE slug = $1`, staffSlug)
	m, err := scanStaff(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find staff by slug: %w", err)
	}
	return m, nil
}

// Create inserts a new staff member and returns it. Empty slug is derived
// from the name; negative DisplayOrder appends after the existing members.
func (s *StaffStore) Create(m *models.StaffMember) (*models.StaffMember, error) {
	if m.Slug == "" {
		m.Slug = slug.Generate(m.Name)
	}
	if m.DisplayOrder < 0 {
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM staff_members`).Scan(&m.DisplayOrder); err != nil {
			return nil, fmt.Errorf("count staff: %w", err)
		}
	}

	row := s.db.QueryRow(`
		INSERT INTO staff_members (name, slug, job_title, credentials, bio, photo_id, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+staffColumns,
		m.Name, m.Slug, m.JobTitle, m.Credentials, m.Bio, m.PhotoID, m.DisplayOrder, m.IsActive,
	)
	result, err := scanStaff(row)
	if err != nil {
		return nil, fmt.Errorf("create staff member: %w", mapConstraintErr(err))
	}
	return result, nil
}

// Update modifies an existing staff member, guarded by Version.
func (s *StaffStore) Update(m *models.StaffMember) error {
	res, err := s.db.Exec(`
		UPDATE staff_members SET
			name = $1, slug = $2, job_title = $3, credentials = $4, bio = $5,
			photo_id = $6, is_active = $7,
			version = version + 1, updated_at = NOW()
		WHERE id = $8 AND version = $9
	`, m.Name, m.Slug, m.JobTitle, m.Credentials, m.Bio,
		m.PhotoID, m.IsActive, m.ID, m.Version)
	if err != nil {
		return fmt.Errorf("update staff member: %w", mapConstraintErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update staff rows: %w", err)
	}
	if n == 0 {
		existing, err := s.FindByID(m.ID)
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
func (s *StaffStore) SetActive(id uuid.UUID, active bool) error {
	res, err := s.db.Exec(`
		UPDATE staff_members SET is_active = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
	`, active, id)
	if err != nil {
		return fmt.Errorf("set staff active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a staff member. Service links go with it (ON DELETE
// CASCADE on the join table).
func (s *StaffStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM staff_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete staff member: %w", err)
	}
	return nil
}

// Reorder applies new display_order values for multiple staff members in a
// single transaction.
func (s *StaffStore) Reorder(items []reorder.OrderUpdate) error {
	return reorderTable(s.db, "staff_members", items)
}
