// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package reorder translates a completed drag-and-drop gesture into the new
// sequence and order values to persist. The move is a list move, not a swap:
// the dragged item is removed from its source position and reinserted at the
// target position, shifting everything in between by one.
package reorder

import "github.com/google/uuid"

// OrderUpdate assigns a display order value to an entity.
type OrderUpdate struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}

// Move returns the sequence after moving dragged to the position currently
// held by over. The second return value is false when the gesture is a no-op:
// dragged equals over, either ID is missing from the list, or the list is
// empty. Callers must skip persistence on a no-op so a cancelled drag never
// touches the store.
func Move(ids []uuid.UUID, dragged, over uuid.UUID) ([]uuid.UUID, bool) {
	if dragged == over {
		return nil, false
	}

	src, dst := -1, -1
	for i, id := range ids {
		switch id {
		case dragged:
			src = i
		case over:
			dst = i
		}
	}
	if src < 0 || dst < 0 {
		return nil, false
	}

	result := make([]uuid.UUID, 0, len(ids))
	result = append(result, ids[:src]...)
	result = append(result, ids[src+1:]...)

	// dst was computed against the original slice; after removing the
	// dragged item the indices line up so that inserting at dst places the
	// item exactly where the drop target sat.
	result = append(result[:dst], append([]uuid.UUID{dragged}, result[dst:]...)...)
	return result, true
}

// Stamp assigns zero-based sequential order values to the given sequence.
// Every item gets re-stamped, not just the moved one, because a single move
// shifts the relative order of many items.
func Stamp(ids []uuid.UUID) []OrderUpdate {
	updates := make([]OrderUpdate, len(ids))
	for i, id := range ids {
		updates[i] = OrderUpdate{ID: id, Order: i}
	}
	return updates
}
