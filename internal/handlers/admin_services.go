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

// ServicesList renders the service management page.
func (a *Admin) ServicesList(w http.ResponseWriter, r *http.Request) {
	a.servicesList(w, r, nil)
}

func (a *Admin) servicesList(w http.ResponseWriter, r *http.Request, flashes []render.Flash) {
	items, err := a.services.List()
	if err != nil {
		slog.Error("list services failed", "error", err)
	}

	a.renderer.Page(w, r, "services", &render.PageData{
		Title:   "Services",
		Section: "services",
		Data:    map[string]any{"Services": items},
		Flashes: flashes,
	})
}

// ServiceNew renders the new service form.
func (a *Admin) ServiceNew(w http.ResponseWriter, r *http.Request) {
	a.serviceForm(w, r, &models.Service{IsActive: true}, nil, nil)
}

// ServiceEdit renders the edit form for a service.
func (a *Admin) ServiceEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	item, err := a.services.FindByID(id)
	if err != nil || item == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	a.serviceForm(w, r, item, nil, nil)
}

// serviceForm renders the service form with its select/checkbox sources:
// all categories, all staff for the practitioner checkboxes, and all
// uploaded photos.
func (a *Admin) serviceForm(w http.ResponseWriter, r *http.Request, sv *models.Service, errs map[string]string, flashes []render.Flash) {
	cats, err := a.categories.List()
	if err != nil {
		slog.Error("list categories for service form failed", "error", err)
	}
	members, err := a.staff.List()
	if err != nil {
		slog.Error("list staff for service form failed", "error", err)
	}
	photos, err := a.media.List()
	if err != nil {
		slog.Error("list photos for service form failed", "error", err)
	}

	title := "New service"
	if sv.ID != uuid.Nil {
		title = "Edit service"
	}
	a.renderer.Page(w, r, "service_form", &render.PageData{
		Title:   title,
		Section: "services",
		Data: map[string]any{
			"Service":    sv,
			"Categories": cats,
			"Staff":      members,
			"Photos":     photos,
		},
		Errors:  errs,
		Flashes: flashes,
	})
}

// ServiceCreate handles the new service form submission.
func (a *Admin) ServiceCreate(w http.ResponseWriter, r *http.Request) {
	draft, errs := serviceFromForm(r)
	draft.DisplayOrder = -1

	if len(errs) > 0 {
		a.serviceForm(w, r, draft, errs, nil)
		return
	}

	if _, err := a.services.Create(draft); err != nil {
		if errors.Is(err, store.ErrSlugTaken) {
			a.serviceForm(w, r, draft, map[string]string{"slug": "This slug is already in use."}, nil)
			return
		}
		slog.Error("create service failed", "error", err)
		a.serviceForm(w, r, draft, nil, errorFlash("Could not save the service. Please try again."))
		return
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/services", http.StatusSeeOther)
}

// ServiceUpdate handles the edit form submission, version-guarded like all
// entity updates.
func (a *Admin) ServiceUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	existing, err := a.services.FindByID(id)
	if err != nil || existing == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	draft, errs := serviceFromForm(r)
	draft.ID = id
	draft.Version, _ = strconv.Atoi(r.FormValue("version"))

	if len(errs) > 0 {
		a.serviceForm(w, r, draft, errs, nil)
		return
	}
	if draft.Slug == "" {
		draft.Slug = slug.Generate(draft.Name)
	}

	if err := a.services.Update(draft); err != nil {
		switch {
		case errors.Is(err, store.ErrSlugTaken):
			a.serviceForm(w, r, draft, map[string]string{"slug": "This slug is already in use."}, nil)
		case errors.Is(err, store.ErrVersionConflict):
			a.serviceForm(w, r, draft, nil, errorFlash(
				"Someone else saved this service while you were editing. Reload to see their changes, then apply yours again."))
		default:
			slog.Error("update service failed", "error", err)
			a.serviceForm(w, r, draft, nil, errorFlash("Could not save the service. Please try again."))
		}
		return
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/services", http.StatusSeeOther)
}

// ServiceToggle flips a service's public visibility.
func (a *Admin) ServiceToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	item, err := a.services.FindByID(id)
	if err != nil || item == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := a.services.SetActive(id, !item.IsActive); err != nil {
		slog.Error("toggle service failed", "error", err)
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/services", http.StatusSeeOther)
}

// ServiceDelete removes a service. Practitioner links go with it; remaining
// services keep their order values.
func (a *Admin) ServiceDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.services.Delete(id); err != nil {
		slog.Error("delete service failed", "error", err)
		a.servicesList(w, r, errorFlash("Could not delete the service."))
		return
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/services", http.StatusSeeOther)
}

// ServiceReorder persists a drag-and-drop reordering of the service list.
func (a *Admin) ServiceReorder(w http.ResponseWriter, r *http.Request) {
	a.handleReorder(w, r, a.services.Reorder, func() []uuid.UUID {
		items, _ := a.services.List()
		ids := make([]uuid.UUID, len(items))
		for i, sv := range items {
			ids[i] = sv.ID
		}
		return ids
	})
}

// serviceFromForm builds a service draft from the submitted form and
// collects every violated field.
func serviceFromForm(r *http.Request) (*models.Service, map[string]string) {
	draft := &models.Service{
		Name:             strings.TrimSpace(r.FormValue("name")),
		Slug:             strings.TrimSpace(r.FormValue("slug")),
		ShortDescription: strings.TrimSpace(r.FormValue("short_description")),
		FullDescription:  strings.TrimSpace(r.FormValue("full_description")),
		InternalNotes:    optStr(r.FormValue("internal_notes")),
		SEOTitle:         optStr(r.FormValue("seo_title")),
		SEODescription:   optStr(r.FormValue("seo_description")),
		IsActive:         formChecked(r, "is_active"),
	}

	errs := validateService(draft.Name, draft.Slug, draft.ShortDescription, draft.FullDescription,
		r.FormValue("seo_title"), r.FormValue("seo_description"))

	catID, err := uuid.Parse(r.FormValue("category_id"))
	if err != nil {
		errs["category_id"] = "Choose a category."
	} else {
		draft.CategoryID = catID
	}

	if v := r.FormValue("duration_minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs["duration_minutes"] = "Duration must be a whole number of minutes."
		} else {
			draft.DurationMinutes = n
		}
	}
	if v := r.FormValue("price_cents"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs["price_cents"] = "Price must be a non-negative number of cents."
		} else {
			draft.PriceCents = n
		}
	}

	if v := r.FormValue("photo_id"); v != "" {
		if photoID, err := uuid.Parse(v); err == nil {
			draft.PhotoID = &photoID
		}
	}

	// Checkbox group: one value per checked practitioner.
	r.ParseForm()
	for _, v := range r.Form["practitioners"] {
		if staffID, err := uuid.Parse(v); err == nil {
			draft.Practitioners = append(draft.Practitioners, staffID)
		}
	}

	return draft, errs
}
