// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the clinic site.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"clinicsite/internal/cache"
	"clinicsite/internal/middleware"
	"clinicsite/internal/models"
	"clinicsite/internal/render"
	"clinicsite/internal/reorder"
	"clinicsite/internal/session"
	"clinicsite/internal/storage"
	"clinicsite/internal/store"
)

// Admin groups all admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer   *render.Renderer
	sessions   *session.Store
	categories *store.CategoryStore
	services   *store.ServiceStore
	staff      *store.StaffStore
	links      *store.SocialLinkStore
	users      *store.UserStore
	media      *store.MediaStore
	storage    *storage.Client
	pageCache  *cache.PageCache
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// storageClient may be nil if S3 is not configured — photo uploads are then
// disabled but everything else works.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, categories *store.CategoryStore, services *store.ServiceStore, staff *store.StaffStore, links *store.SocialLinkStore, users *store.UserStore, media *store.MediaStore, storageClient *storage.Client, pageCache *cache.PageCache) *Admin {
	return &Admin{
		renderer:   renderer,
		sessions:   sessions,
		categories: categories,
		services:   services,
		staff:      staff,
		links:      links,
		users:      users,
		media:      media,
		storage:    storageClient,
		pageCache:  pageCache,
	}
}

// Dashboard renders the admin dashboard with entity counts.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	cats, _ := a.categories.List()
	svcs, _ := a.services.List()
	members, _ := a.staff.List()
	links, _ := a.links.List()

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"CategoryCount": len(cats),
			"ServiceCount":  len(svcs),
			"StaffCount":    len(members),
			"LinkCount":     len(links),
		},
	})
}

// --- Shared helpers ---

// idParam parses the {id} chi URL parameter. The second return value is
// false when the parameter is missing or malformed; callers respond 400.
func idParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// formChecked reports whether an HTML checkbox was ticked.
func formChecked(r *http.Request, field string) bool {
	return r.FormValue(field) != ""
}

// optStr turns a trimmed form value into a nullable column value.
func optStr(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// errorFlash wraps a message as a single error flash for re-rendered pages.
func errorFlash(msg string) []render.Flash {
	return []render.Flash{{Type: "error", Message: msg}}
}

// invalidatePublic clears the whole public page cache. Ordering and
// visibility changes can affect the homepage, listing pages and detail
// pages at once, so every admin write clears everything.
func (a *Admin) invalidatePublic(r *http.Request) {
	a.pageCache.InvalidateAll(r.Context())
}

// --- Drag-and-drop reordering ---

// reorderRequest is the JSON body posted by the admin list pages after a
// completed drag: every row's id in its new on-screen position.
type reorderRequest struct {
	Items []reorder.OrderUpdate `json:"items"`
}

// handleReorder is the shared reorder endpoint body. The posted sequence
// is re-stamped with zero-based order values server-side (array position
// wins over the client's order numbers) and persisted as one batch. On
// failure the response carries the order the store still holds so the
// client can roll back to the last confirmed state.
func (a *Admin) handleReorder(w http.ResponseWriter, r *http.Request, persist func([]reorder.OrderUpdate) error, serverOrder func() []uuid.UUID) {
	var req reorderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid reorder payload"})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "empty reorder payload"})
		return
	}

	ids := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		ids[i] = item.ID
	}

	if err := persist(reorder.Stamp(ids)); err != nil {
		slog.Error("reorder failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "could not save the new order",
			"order": serverOrder(),
		})
		return
	}

	a.invalidatePublic(r)
	writeJSON(w, http.StatusOK, map[string]any{"order": ids})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// --- User management (RequireAdmin routes) ---

// UsersList renders the user management page.
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List()
	if err != nil {
		slog.Error("list users failed", "error", err)
	}

	a.renderer.Page(w, r, "users", &render.PageData{
		Title:   "Users",
		Section: "users",
		Data:    map[string]any{"Users": users},
	})
}

// UserNew renders the new user creation form.
func (a *Admin) UserNew(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "user_form", &render.PageData{
		Title:   "New User",
		Section: "users",
		Data:    map[string]any{},
	})
}

// UserCreate handles the new user form submission.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	password := r.FormValue("password")
	role := r.FormValue("role")

	draft := map[string]any{
		"Email":       email,
		"DisplayName": displayName,
		"Role":        role,
	}

	errs := validateNewUser(email, displayName, password, role)
	if existing, _ := a.users.FindByEmail(email); existing != nil {
		errs["email"] = "A user with this email already exists."
	}
	if len(errs) > 0 {
		a.renderer.Page(w, r, "user_form", &render.PageData{
			Title:   "New User",
			Section: "users",
			Data:    draft,
			Errors:  errs,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if _, err := a.users.Create(&models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         models.Role(role),
	}); err != nil {
		slog.Error("create user failed", "error", err)
		a.renderer.Page(w, r, "user_form", &render.PageData{
			Title:   "New User",
			Section: "users",
			Data:    draft,
			Flashes: errorFlash("Could not create the user."),
		})
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	slog.Info("user created", "admin", sess.Email, "new_user", email, "role", role)
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// UserResetTwoFA resets another user's 2FA, forcing re-enrollment on next
// login. Users cannot reset their own 2FA this way.
func (a *Admin) UserResetTwoFA(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if id == sess.UserID {
		http.Error(w, "Cannot reset your own 2FA", http.StatusForbidden)
		return
	}

	if err := a.users.ResetTOTP(id); err != nil {
		slog.Error("reset 2fa failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("2fa reset by admin", "admin", sess.Email, "target_user", id)
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// UserDelete removes a user account. Deleting yourself is refused so the
// last admin cannot lock everyone out mid-session.
func (a *Admin) UserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if id == sess.UserID {
		http.Error(w, "Cannot delete your own account", http.StatusForbidden)
		return
	}

	if err := a.users.Delete(id); err != nil {
		slog.Error("delete user failed", "error", err)
	} else {
		slog.Info("user deleted", "admin", sess.Email, "target_user", id)
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
