// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"clinicsite/internal/models"
	"clinicsite/internal/reorder"
	"clinicsite/internal/slug"
)

// CategoryStore manages service categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, display_order, is_active, version, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.DisplayOrder, &c.IsActive, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by display_order, with service counts.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.display_order, c.is_active,
		       c.version, c.created_at, c.updated_at,
		       COUNT(sv.id) AS service_count
		FROM categories c
		LEFT JOIN services sv ON sv.category_id = c.id
		GROUP BY c.id
		ORDER BY c.display_order, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description,
			&c.DisplayOrder, &c.IsActive, &c.Version, &c.CreatedAt, &c.UpdatedAt,
			&c.ServiceCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// ListActive returns only active categories ordered by display_order.
// Feeds the public projection.
func (s *CategoryStore) ListActive() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE is_active
		ORDER BY display_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list active categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(categorySlug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, categorySlug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it. When the slug is empty it is
// derived from the name; when DisplayOrder is negative the category is
// appended after the existing ones.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
	}
	if c.DisplayOrder < 0 {
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("count categories: %w", err)
		}
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.DisplayOrder, c.IsActive,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", mapConstraintErr(err))
	}
	return result, nil
}

// Update modifies an existing category. The category's Version must match
// the stored row; a mismatch returns ErrVersionConflict so concurrent admin
// edits never silently overwrite each other.
func (s *CategoryStore) Update(c *models.Category) error {
	res, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, is_active = $4,
			version = version + 1, updated_at = NOW()
		WHERE id = $5 AND version = $6
	`, c.Name, c.Slug, c.Description, c.IsActive, c.ID, c.Version)
	if err != nil {
		return fmt.Errorf("update category: %w", mapConstraintErr(err))
	}
	return s.checkUpdated(res, c.ID)
}

// SetActive flips only the visibility flag, leaving every other field
// untouched. Equivalent to a partial update of is_active.
func (s *CategoryStore) SetActive(id uuid.UUID, active bool) error {
	res, err := s.db.Exec(`
		UPDATE categories SET is_active = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
	`, active, id)
	if err != nil {
		return fmt.Errorf("set category active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category. Categories still referenced by services cannot
// be deleted (ON DELETE RESTRICT); the violation maps to ErrReferenced.
// Remaining categories keep their order values — gaps are fine, the sort is
// by relative value.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", mapConstraintErr(err))
	}
	return nil
}

// Reorder applies new display_order values for multiple categories in a
// single transaction. The whole batch commits or none of it does.
func (s *CategoryStore) Reorder(items []reorder.OrderUpdate) error {
	return reorderTable(s.db, "categories", items)
}

// checkUpdated distinguishes a stale version from a missing row after a
// version-guarded UPDATE affected zero rows.
func (s *CategoryStore) checkUpdated(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category rows: %w", err)
	}
	if n > 0 {
		return nil
	}
	existing, err := s.FindByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return ErrVersionConflict
}

// reorderTable is the shared reorder batch: one transaction, one prepared
// statement, one timestamp for the entire batch.
func reorderTable(db *sql.DB, table string, items []reorder.OrderUpdate) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE ` + table + ` SET display_order = $1, version = version + 1, updated_at = $2
		WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, item := range items {
		if _, err := stmt.Exec(item.Order, now, item.ID); err != nil {
			return fmt.Errorf("reorder %s %s: %w", table, item.ID, err)
		}
	}

	return tx.Commit()
}
