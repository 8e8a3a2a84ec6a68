// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all clinic entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
//
// Read methods return (nil, nil) for missing rows. Write methods surface
// failures to the caller — a swallowed write failure would let an admin
// believe a change was saved when it was not. Constraint violations map to
// the sentinel errors below so handlers can show a precise message.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrSlugTaken reports a unique-constraint violation on a slug column.
	// Slugs are unique per entity kind so URL lookup is unambiguous.
	ErrSlugTaken = errors.New("store: slug already in use")

	// ErrReferenced reports a delete blocked by a foreign-key reference,
	// e.g. removing a category that still has services.
	ErrReferenced = errors.New("store: entity is still referenced")

	// ErrVersionConflict reports a stale update: the row was modified by
	// someone else since this draft was loaded.
	ErrVersionConflict = errors.New("store: version conflict")

	// ErrNotFound reports a write against a row that does not exist.
	ErrNotFound = errors.New("store: not found")
)

// PostgreSQL error codes (https://www.postgresql.org/docs/current/errcodes-appendix.html).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapConstraintErr converts pgconn constraint violations into sentinel
// errors. Other errors pass through unchanged.
func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrSlugTaken
	case pgForeignKeyViolation:
		return ErrReferenced
	}
	return err
}
