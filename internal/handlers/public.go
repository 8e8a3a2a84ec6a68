// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clinicsite/internal/cache"
	"clinicsite/internal/models"
	"clinicsite/internal/projection"
	"clinicsite/internal/render"
	"clinicsite/internal/storage"
	"clinicsite/internal/store"
)

const siteName = "Riverside Wellness Clinic"

// Public serves the marketing pages. Every page renders from projected
// data — active entities only, in display order, admin fields stripped —
// and is cached whole in Valkey. Store errors are absorbed: a failing
// database degrades a page to its empty state rather than a 500.
type Public struct {
	renderer   *render.Renderer
	categories *store.CategoryStore
	services   *store.ServiceStore
	staff      *store.StaffStore
	links      *store.SocialLinkStore
	media      *store.MediaStore
	storage    *storage.Client
	pageCache  *cache.PageCache
}

// NewPublic creates the public handler group. storageClient may be nil;
// pages then render without photos.
func NewPublic(renderer *render.Renderer, categories *store.CategoryStore, services *store.ServiceStore, staff *store.StaffStore, links *store.SocialLinkStore, media *store.MediaStore, storageClient *storage.Client, pageCache *cache.PageCache) *Public {
	return &Public{
		renderer:   renderer,
		categories: categories,
		services:   services,
		staff:      staff,
		links:      links,
		media:      media,
		storage:    storageClient,
		pageCache:  pageCache,
	}
}

// serveCached writes the cached page for key, or renders it with build,
// caches the result and writes that.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key, tmpl string, build func() *render.PublicData) {
	ctx := r.Context()
	if html, ok := p.pageCache.Get(ctx, key); ok {
		writeHTML(w, http.StatusOK, html)
		return
	}

	html, err := p.renderer.PublicHTML(tmpl, build())
	if err != nil {
		slog.Error("render public page failed", "template", tmpl, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, key, html)
	writeHTML(w, http.StatusOK, html)
}

// Homepage renders the landing page: services grouped by category plus a
// team preview.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.HomepageKey(), "home", func() *render.PublicData {
		cats, svcs := p.catalog()
		members := p.activeStaff()

		services := projection.Services(svcs, cats)
		return &render.PublicData{
			Title: siteName,
			Data: map[string]any{
				"MetaDescription":    "Massage therapy, physiotherapy and more at " + siteName + ".",
				"Categories":         projection.Categories(cats),
				"ServicesByCategory": projection.ServicesByCategory(services),
				"Staff":              projection.StaffMembers(members),
				"SocialLinks":        p.socialLinks(),
			},
		}
	})
}

// ServicesPage renders the full service listing grouped by category.
func (p *Public) ServicesPage(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.ServicesIndexKey(), "services", func() *render.PublicData {
		cats, svcs := p.catalog()
		services := projection.Services(svcs, cats)
		return &render.PublicData{
			Title: "Services — " + siteName,
			Data: map[string]any{
				"Categories":         projection.Categories(cats),
				"ServicesByCategory": projection.ServicesByCategory(services),
				"SocialLinks":        p.socialLinks(),
			},
		}
	})
}

// ServiceDetail renders one service page by slug. Unknown or inactive
// slugs get the not-found page.
func (p *Public) ServiceDetail(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	svc, err := p.services.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find service by slug failed", "slug", slugParam, "error", err)
	}
	if svc == nil || !svc.IsActive {
		p.NotFound(w, r)
		return
	}

	p.serveCached(w, r, cache.ServiceKey(slugParam), "service", func() *render.PublicData {
		cats, _ := p.categories.List()
		projected := projection.Services([]models.Service{*svc}, cats)
		if len(projected) == 0 {
			return &render.PublicData{Title: siteName, Data: map[string]any{}}
		}
		view := projected[0]

		// Breadcrumb only when the category is visible on the site.
		categoryName := ""
		if cat, err := p.categories.FindByID(svc.CategoryID); err == nil && cat != nil && cat.IsActive {
			categoryName = cat.Name
		}

		var linked []models.StaffMember
		for _, m := range p.activeStaff() {
			if uuidIn(svc.Practitioners, m.ID) {
				linked = append(linked, m)
			}
		}
		practitioners := projection.StaffMembers(linked)

		title := svc.Name + " — " + siteName
		if svc.SEOTitle != nil && *svc.SEOTitle != "" {
			title = *svc.SEOTitle
		}
		meta := svc.ShortDescription
		if svc.SEODescription != nil && *svc.SEODescription != "" {
			meta = *svc.SEODescription
		}

		return &render.PublicData{
			Title: title,
			Data: map[string]any{
				"MetaDescription": meta,
				"Service":         view,
				"CategoryName":    categoryName,
				"PhotoURL":        p.photoURL(svc.PhotoID),
				"Paragraphs":      splitParagraphs(svc.FullDescription),
				"Practitioners":   practitioners,
				"SocialLinks":     p.socialLinks(),
			},
		}
	})
}

// TeamPage renders the staff listing.
func (p *Public) TeamPage(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.TeamKey(), "team", func() *render.PublicData {
		members := p.activeStaff()

		urls := make(map[string]string, len(members))
		for _, m := range members {
			if u := p.photoURL(m.PhotoID); u != "" {
				urls[m.Slug] = u
			}
		}

		return &render.PublicData{
			Title: "Our team — " + siteName,
			Data: map[string]any{
				"Staff":       projection.StaffMembers(members),
				"PhotoURLs":   urls,
				"SocialLinks": p.socialLinks(),
			},
		}
	})
}

// StaffMemberPage renders one practitioner profile by slug.
func (p *Public) StaffMemberPage(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	member, err := p.staff.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find staff by slug failed", "slug", slugParam, "error", err)
	}
	if member == nil || !member.IsActive {
		p.NotFound(w, r)
		return
	}

	p.serveCached(w, r, cache.StaffKey(slugParam), "staff_member", func() *render.PublicData {
		projected := projection.StaffMembers([]models.StaffMember{*member})
		if len(projected) == 0 {
			return &render.PublicData{Title: siteName, Data: map[string]any{}}
		}

		return &render.PublicData{
			Title: member.Name + " — " + siteName,
			Data: map[string]any{
				"MetaDescription": member.Name + ", " + member.JobTitle + " at " + siteName + ".",
				"Member":          projected[0],
				"Paragraphs":      splitParagraphs(member.Bio),
				"PhotoURL":        p.photoURL(member.PhotoID),
				"SocialLinks":     p.socialLinks(),
			},
		}
	})
}

// ContactPage renders the contact page with the clinic's social links.
func (p *Public) ContactPage(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.ContactKey(), "contact", func() *render.PublicData {
		return &render.PublicData{
			Title: "Contact — " + siteName,
			Data: map[string]any{
				"SocialLinks": p.socialLinks(),
			},
		}
	})
}

// NotFound renders the public 404 page. Not cached — it carries no data
// worth caching and keeps error paths simple.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	html, err := p.renderer.PublicHTML("not_found", &render.PublicData{
		Title: "Page not found — " + siteName,
		Data: map[string]any{
			"SocialLinks": p.socialLinks(),
		},
	})
	if err != nil {
		slog.Error("render not found page failed", "error", err)
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeHTML(w, http.StatusNotFound, html)
}

// --- Data helpers ---

// catalog loads categories and services, absorbing errors into empty
// slices.
func (p *Public) catalog() ([]models.Category, []models.Service) {
	cats, err := p.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}
	svcs, err := p.services.ListActive()
	if err != nil {
		slog.Error("list services failed", "error", err)
	}
	return cats, svcs
}

func (p *Public) activeStaff() []models.StaffMember {
	members, err := p.staff.ListActive()
	if err != nil {
		slog.Error("list staff failed", "error", err)
	}
	return members
}

// socialLinks loads the projected footer links.
func (p *Public) socialLinks() []projection.SocialLink {
	links, err := p.links.ListActive()
	if err != nil {
		slog.Error("list social links failed", "error", err)
	}
	return projection.SocialLinks(links)
}

// photoURL resolves a photo reference to its public URL, or "" when the
// photo is missing or storage is not configured.
func (p *Public) photoURL(id *uuid.UUID) string {
	if id == nil || p.storage == nil {
		return ""
	}
	photo, err := p.media.FindByID(*id)
	if err != nil {
		slog.Error("find photo failed", "id", *id, "error", err)
		return ""
	}
	if photo == nil {
		return ""
	}
	return p.storage.FileURL(photo.S3Key)
}

// splitParagraphs breaks long-form text on blank lines for rendering as
// <p> blocks.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, part := range strings.Split(text, "\n\n") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// uuidIn reports whether id appears in list.
func uuidIn(list []uuid.UUID, id uuid.UUID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

// writeHTML writes a rendered page with the right headers.
func writeHTML(w http.ResponseWriter, status int, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(html)
}
