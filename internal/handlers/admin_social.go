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
	"clinicsite/internal/store"
)

// SocialLinksList renders the social link management page.
func (a *Admin) SocialLinksList(w http.ResponseWriter, r *http.Request) {
	a.socialLinksList(w, r, nil)
}

func (a *Admin) socialLinksList(w http.ResponseWriter, r *http.Request, flashes []render.Flash) {
	items, err := a.links.List()
	if err != nil {
		slog.Error("list social links failed", "error", err)
	}

	a.renderer.Page(w, r, "social_links", &render.PageData{
		Title:   "Social links",
		Section: "social-links",
		Data:    map[string]any{"Links": items},
		Flashes: flashes,
	})
}

// SocialLinkNew renders the new social link form.
func (a *Admin) SocialLinkNew(w http.ResponseWriter, r *http.Request) {
	a.socialLinkForm(w, r, &models.SocialLink{IsActive: true}, nil, nil)
}

// SocialLinkEdit renders the edit form for a social link.
func (a *Admin) SocialLinkEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	item, err := a.links.FindByID(id)
	if err != nil || item == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	a.socialLinkForm(w, r, item, nil, nil)
}

func (a *Admin) socialLinkForm(w http.ResponseWriter, r *http.Request, l *models.SocialLink, errs map[string]string, flashes []render.Flash) {
	title := "New social link"
	if l.ID != uuid.Nil {
		title = "Edit social link"
	}
	a.renderer.Page(w, r, "social_link_form", &render.PageData{
		Title:   title,
		Section: "social-links",
		Data: map[string]any{
			"Link":      l,
			"Platforms": socialPlatforms,
		},
		Errors:  errs,
		Flashes: flashes,
	})
}

// SocialLinkCreate handles the new social link form submission.
func (a *Admin) SocialLinkCreate(w http.ResponseWriter, r *http.Request) {
	draft := socialLinkFromForm(r)
	draft.DisplayOrder = -1

	if errs := validateSocialLink(draft.Platform, draft.Label, draft.URL); len(errs) > 0 {
		a.socialLinkForm(w, r, draft, errs, nil)
		return
	}

	if _, err := a.links.Create(draft); err != nil {
		slog.Error("create social link failed", "error", err)
		a.socialLinkForm(w, r, draft, nil, errorFlash("Could not save the social link. Please try again."))
		return
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/social-links", http.StatusSeeOther)
}

// SocialLinkUpdate handles the edit form submission.
func (a *Admin) SocialLinkUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	existing, err := a.links.FindByID(id)
	if err != nil || existing == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	draft := socialLinkFromForm(r)
	draft.ID = id
	draft.Version, _ = strconv.Atoi(r.FormValue("version"))

	if errs := validateSocialLink(draft.Platform, draft.Label, draft.URL); len(errs) > 0 {
		a.socialLinkForm(w, r, draft, errs, nil)
		return
	}

	if err := a.links.Update(draft); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			a.socialLinkForm(w, r, draft, nil, errorFlash(
				"Someone else saved this link while you were editing. Reload to see their changes, then apply yours again."))
			return
		}
		slog.Error("update social link failed", "error", err)
		a.socialLinkForm(w, r, draft, nil, errorFlash("Could not save the social link. Please try again."))
		return
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/social-links", http.StatusSeeOther)
}

// SocialLinkToggle flips a social link's public visibility.
func (a *Admin) SocialLinkToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	item, err := a.links.FindByID(id)
	if err != nil || item == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := a.links.SetActive(id, !item.IsActive); err != nil {
		slog.Error("toggle social link failed", "error", err)
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/social-links", http.StatusSeeOther)
}

// SocialLinkDelete removes a social link.
func (a *Admin) SocialLinkDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.links.Delete(id); err != nil {
		slog.Error("delete social link failed", "error", err)
		a.socialLinksList(w, r, errorFlash("Could not delete the social link."))
		return
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/social-links", http.StatusSeeOther)
}

// SocialLinkReorder persists a drag-and-drop reordering of the footer links.
func (a *Admin) SocialLinkReorder(w http.ResponseWriter, r *http.Request) {
	a.handleReorder(w, r, a.links.Reorder, func() []uuid.UUID {
		items, _ := a.links.List()
		ids := make([]uuid.UUID, len(items))
		for i, l := range items {
			ids[i] = l.ID
		}
		return ids
	})
}

func socialLinkFromForm(r *http.Request) *models.SocialLink {
	return &models.SocialLink{
		Platform: strings.TrimSpace(r.FormValue("platform")),
		Label:    strings.TrimSpace(r.FormValue("label")),
		URL:      strings.TrimSpace(r.FormValue("url")),
		IsActive: formChecked(r, "is_active"),
	}
}
