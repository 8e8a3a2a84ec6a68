// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// clinic site. Routes are organized into the public site and the admin
// panel, each with its own middleware stack.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"clinicsite/internal/handlers"
	"clinicsite/internal/middleware"
	"clinicsite/internal/session"
	"clinicsite/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Compiled static assets (CSS).
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	// Credential endpoints get a per-IP rate limit on top of CSRF.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Admin routes — CSRF protection on the whole group.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(secureCookies))

		// Auth pages — accessible without a session.
		r.Get("/login", auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.With(loginLimiter.Middleware).Post("/2fa/setup", auth.TwoFASetupSubmit)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.With(loginLimiter.Middleware).Post("/2fa/verify", auth.TwoFAVerifySubmit)
		})

		// Authenticated + 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			// Dashboard
			r.Get("/", admin.Dashboard)
			r.Get("/dashboard", admin.Dashboard)

			// Categories
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesList)
				r.Get("/new", admin.CategoryNew)
				r.Post("/", admin.CategoryCreate)
				r.Post("/reorder", admin.CategoryReorder)
				r.Get("/{id}/edit", admin.CategoryEdit)
				r.Post("/{id}", admin.CategoryUpdate)
				r.Post("/{id}/toggle", admin.CategoryToggle)
				r.Post("/{id}/delete", admin.CategoryDelete)
			})

			// Services
			r.Route("/services", func(r chi.Router) {
				r.Get("/", admin.ServicesList)
				r.Get("/new", admin.ServiceNew)
				r.Post("/", admin.ServiceCreate)
				r.Post("/reorder", admin.ServiceReorder)
				r.Get("/{id}/edit", admin.ServiceEdit)
				r.Post("/{id}", admin.ServiceUpdate)
				r.Post("/{id}/toggle", admin.ServiceToggle)
				r.Post("/{id}/delete", admin.ServiceDelete)
			})

			// Staff
			r.Route("/staff", func(r chi.Router) {
				r.Get("/", admin.StaffList)
				r.Get("/new", admin.StaffNew)
				r.Post("/", admin.StaffCreate)
				r.Post("/reorder", admin.StaffReorder)
				r.Get("/{id}/edit", admin.StaffEdit)
				r.Post("/{id}", admin.StaffUpdate)
				r.Post("/{id}/toggle", admin.StaffToggle)
				r.Post("/{id}/delete", admin.StaffDelete)
			})

			// Social links
			r.Route("/social-links", func(r chi.Router) {
				r.Get("/", admin.SocialLinksList)
				r.Get("/new", admin.SocialLinkNew)
				r.Post("/", admin.SocialLinkCreate)
				r.Post("/reorder", admin.SocialLinkReorder)
				r.Get("/{id}/edit", admin.SocialLinkEdit)
				r.Post("/{id}", admin.SocialLinkUpdate)
				r.Post("/{id}/toggle", admin.SocialLinkToggle)
				r.Post("/{id}/delete", admin.SocialLinkDelete)
			})

			// Photo library
			r.Route("/photos", func(r chi.Router) {
				r.Get("/", admin.PhotosPage)
				r.Post("/", admin.PhotoUpload)
				r.Post("/{id}/delete", admin.PhotoDelete)
			})

			// User management — admin only
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", admin.UsersList)
				r.Get("/new", admin.UserNew)
				r.Post("/", admin.UserCreate)
				r.Post("/{id}/reset-2fa", admin.UserResetTwoFA)
				r.Post("/{id}/delete", admin.UserDelete)
			})
		})
	})

	// Public routes — cached marketing pages.
	r.Get("/", public.Homepage)
	r.Get("/services", public.ServicesPage)
	r.Get("/services/{slug}", public.ServiceDetail)
	r.Get("/team", public.TeamPage)
	r.Get("/team/{slug}", public.StaffMemberPage)
	r.Get("/contact", public.ContactPage)
	r.NotFound(public.NotFound)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
