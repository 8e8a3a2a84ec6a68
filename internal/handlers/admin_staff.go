// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"clinicsite/internal/models"
	"clinicsite/internal/render"
	"clinicsite/internal/slug"
	"clinicsite/internal/store"
)

// StaffList renders the staff management page.
func (a *Admin) StaffList(w http.ResponseWriter, r *http.Request) {
	a.staffList(w, r, nil)
}

func (a *Admin) staffList(w http.ResponseWriter, r *http.Request, flashes []render.Flash) {
	members, err := a.staff.List()
	if err != nil {
		slog.Error("list staff failed", "error", err)
	}

	a.renderer.Page(w, r, "staff", &render.PageData{
		Title:   "Staff",
		Section: "staff",
		Data:    map[string]any{"Staff": members},
		Flashes: flashes,
	})
}

// StaffNew renders the new staff member form.
func (a *Admin) StaffNew(w http.ResponseWriter, r *http.Request) {
	a.staffForm(w, r, &models.StaffMember{IsActive: true}, nil, nil)
}

// StaffEdit renders the edit form for a staff member.
func (a *Admin) StaffEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	item, err := a.staff.FindByID(id)
	if err != nil || item == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	a.staffForm(w, r, item, nil, nil)
}

func (a *Admin) staffForm(w http.ResponseWriter, r *http.Request, m *models.StaffMember, errs map[string]string, flashes []render.Flash) {
	photos, err := a.media.List()
	if err != nil {
		slog.Error("list photos for staff form failed", "error", err)
	}

	title := "New staff member"
	if m.ID != uuid.Nil {
		title = "Edit staff member"
	}
	a.renderer.Page(w, r, "staff_form", &render.PageData{
		Title:   title,
		Section: "staff",
		Data: map[string]any{
			"Member": m,
			"Photos": photos,
		},
		Errors:  errs,
		Flashes: flashes,
	})
}

// StaffCreate handles the new staff member form submission.
func (a *Admin) StaffCreate(w http.ResponseWriter, r *http.Request) {
	draft := staffFromForm(r)
	draft.DisplayOrder = -1

	if errs := validateStaff(draft.Name, draft.Slug, draft.JobTitle, draft.Bio); len(errs) > 0 {
		a.staffForm(w, r, draft, errs, nil)
		return
	}

	if _, err := a.staff.Create(draft); err != nil {
		if errors.Is(err, store.ErrSlugTaken) {
			a.staffForm(w, r, draft, map[string]string{"slug": "This slug is already in use."}, nil)
			return
		}
		slog.Error("create staff member failed", "error", err)
		a.staffForm(w, r, draft, nil, errorFlash("Could not save the staff member. Please try again."))
		return
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/staff", http.StatusSeeOther)
}

// StaffUpdate handles the edit form submission.
func (a *Admin) StaffUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	existing, err := a.staff.FindByID(id)
	if err != nil || existing == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	draft := staffFromForm(r)
	draft.ID = id
	draft.Version, _ = strconv.Atoi(r.FormValue("version"))

	if errs := validateStaff(draft.Name, draft.Slug, draft.JobTitle, draft.Bio); len(errs) > 0 {
		a.staffForm(w, r, draft, errs, nil)
		return
	}
	if draft.Slug == "" {
		draft.Slug = slug.Generate(draft.Name)
	}

	if err := a.staff.Update(draft); err != nil {
		switch {
		case errors.Is(err, store.ErrSlugTaken):
			a.staffForm(w, r, draft, map[string]string{"slug": "This slug is already in use."}, nil)
		case errors.Is(err, store.ErrVersionConflict):
			a.staffForm(w, r, draft, nil, errorFlash(
				"Someone else saved this staff member while you were editing. Reload to see their changes, then apply yours again."))
		default:
			slog.Error("update staff member failed", "error", err)
			a.staffForm(w, r, draft, nil, errorFlash("Could not save the staff member. Please try again."))
		}
		return
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/staff", http.StatusSeeOther)
}

// StaffToggle flips a staff member's public visibility.
func (a *Admin) StaffToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	item, err := a.staff.FindByID(id)
	if err != nil || item == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := a.staff.SetActive(id, !item.IsActive); err != nil {
		slog.Error("toggle staff member failed", "error", err)
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/staff", http.StatusSeeOther)
}

// StaffDelete removes a staff member. Services keep working; the member
// simply disappears from their practitioner lists.
func (a *Admin) StaffDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.staff.Delete(id); err != nil {
		slog.Error("delete staff member failed", "error", err)
		a.staffList(w, r, errorFlash("Could not delete the staff member."))
		return
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/staff", http.StatusSeeOther)
}

// StaffReorder persists a drag-and-drop reordering of the staff list.
func (a *Admin) StaffReorder(w http.ResponseWriter, r *http.Request) {
	a.handleReorder(w, r, a.staff.Reorder, func() []uuid.UUID {
		members, _ := a.staff.List()
		ids := make([]uuid.UUID, len(members))
		for i, m := range members {
			ids[i] = m.ID
		}
		return ids
	})
}

func staffFromForm(r *http.Request) *models.StaffMember {
	draft := &models.StaffMember{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Slug:        strings.TrimSpace(r.FormValue("slug")),
		JobTitle:    strings.TrimSpace(r.FormValue("job_title")),
		Credentials: optStr(r.FormValue("credentials")),
		Bio:         strings.TrimSpace(r.FormValue("bio")),
		IsActive:    formChecked(r, "is_active"),
	}
	if v := r.FormValue("photo_id"); v != "" {
		if photoID, err := uuid.Parse(v); err == nil {
			draft.PhotoID = &photoID
		}
	}
	return draft
}
