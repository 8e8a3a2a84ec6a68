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

// CategoriesList renders the category management page.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	a.categoriesList(w, r, nil)
}

func (a *Admin) categoriesList(w http.ResponseWriter, r *http.Request, flashes []render.Flash) {
	items, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	a.renderer.Page(w, r, "categories", &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Data:    map[string]any{"Categories": items},
		Flashes: flashes,
	})
}

// CategoryNew renders the new category form.
func (a *Admin) CategoryNew(w http.ResponseWriter, r *http.Request) {
	a.categoryForm(w, r, &models.Category{IsActive: true}, nil, nil)
}

// CategoryEdit renders the edit form for a category.
func (a *Admin) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	item, err := a.categories.FindByID(id)
	if err != nil || item == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	a.categoryForm(w, r, item, nil, nil)
}

func (a *Admin) categoryForm(w http.ResponseWriter, r *http.Request, c *models.Category, errs map[string]string, flashes []render.Flash) {
	title := "New category"
	if c.ID != uuid.Nil {
		title = "Edit category"
	}
	a.renderer.Page(w, r, "category_form", &render.PageData{
		Title:   title,
		Section: "categories",
		Data:    map[string]any{"Category": c},
		Errors:  errs,
		Flashes: flashes,
	})
}

// CategoryCreate handles the new category form submission. Validation
// reports every violated field at once; only a clean payload reaches the
// store.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	draft := categoryFromForm(r)
	draft.DisplayOrder = -1 // store appends at the end

	if errs := validateCategory(draft.Name, draft.Slug, draft.Description); len(errs) > 0 {
		a.categoryForm(w, r, draft, errs, nil)
		return
	}

	if _, err := a.categories.Create(draft); err != nil {
		if errors.Is(err, store.ErrSlugTaken) {
			a.categoryForm(w, r, draft, map[string]string{"slug": "This slug is already in use."}, nil)
			return
		}
		slog.Error("create category failed", "error", err)
		a.categoryForm(w, r, draft, nil, errorFlash("Could not save the category. Please try again."))
		return
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryUpdate handles the edit form submission. The hidden version field
// guards against overwriting a concurrent edit — a stale version re-renders
// the form with a conflict notice and keeps the admin's draft.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	existing, err := a.categories.FindByID(id)
	if err != nil || existing == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	draft := categoryFromForm(r)
	draft.ID = id
	draft.Version, _ = strconv.Atoi(r.FormValue("version"))

	if errs := validateCategory(draft.Name, draft.Slug, draft.Description); len(errs) > 0 {
		a.categoryForm(w, r, draft, errs, nil)
		return
	}
	if draft.Slug == "" {
		draft.Slug = slug.Generate(draft.Name)
	}

	if err := a.categories.Update(draft); err != nil {
		switch {
		case errors.Is(err, store.ErrSlugTaken):
			a.categoryForm(w, r, draft, map[string]string{"slug": "This slug is already in use."}, nil)
		case errors.Is(err, store.ErrVersionConflict):
			a.categoryForm(w, r, draft, nil, errorFlash(
				"Someone else saved this category while you were editing. Reload to see their changes, then apply yours again."))
		default:
			slog.Error("update category failed", "error", err)
			a.categoryForm(w, r, draft, nil, errorFlash("Could not save the category. Please try again."))
		}
		return
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryToggle flips a category's public visibility.
func (a *Admin) CategoryToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	item, err := a.categories.FindByID(id)
	if err != nil || item == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := a.categories.SetActive(id, !item.IsActive); err != nil {
		slog.Error("toggle category failed", "error", err)
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryDelete removes a category. Categories still referenced by
// services are protected by the database and surface as an error banner.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.categories.Delete(id); err != nil {
		if errors.Is(err, store.ErrReferenced) {
			a.categoriesList(w, r, errorFlash(
				"This category still has services. Move or delete them first."))
			return
		}
		slog.Error("delete category failed", "error", err)
		a.categoriesList(w, r, errorFlash("Could not delete the category."))
		return
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryReorder persists a drag-and-drop reordering of the category list.
func (a *Admin) CategoryReorder(w http.ResponseWriter, r *http.Request) {
	a.handleReorder(w, r, a.categories.Reorder, func() []uuid.UUID {
		items, _ := a.categories.List()
		ids := make([]uuid.UUID, len(items))
		for i, c := range items {
			ids[i] = c.ID
		}
		return ids
	})
}

func categoryFromForm(r *http.Request) *models.Category {
	return &models.Category{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Slug:        strings.TrimSpace(r.FormValue("slug")),
		Description: strings.TrimSpace(r.FormValue("description")),
		IsActive:    formChecked(r, "is_active"),
	}
}
