// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"clinicsite/internal/models"
	"clinicsite/internal/slug"
)

// Validation limits for admin form fields. Length rules live here, at the
// form boundary — the store persists whatever a validated form produced.
const (
	minNameLen      = 2
	maxNameLen      = 200
	maxSlugLen      = 300
	minShortDescLen = 10
	maxShortDescLen = 300
	minFullDescLen  = 40
	maxFullDescLen  = 10_000
	maxSEOTitleLen  = 70
	maxSEODescLen   = 160
	maxLabelLen     = 100
	minPasswordLen  = 8
)

// socialPlatforms are the platforms the social link form offers.
var socialPlatforms = []string{
	"instagram", "facebook", "tiktok", "youtube", "x", "linkedin",
}

// Validators collect EVERY violated field into a map keyed by form field
// name, so the form can mark all problems in one round trip instead of
// revealing them one submission at a time. An empty map means the payload
// may proceed to the store.

func validateCategory(name, slugValue, description string) map[string]string {
	errs := map[string]string{}
	checkName(errs, name)
	checkSlug(errs, slugValue)
	if utf8.RuneCountInString(description) > maxShortDescLen {
		errs["description"] = fmt.Sprintf("Description is too long (max %d characters).", maxShortDescLen)
	}
	return errs
}

func validateService(name, slugValue, shortDesc, fullDesc, seoTitle, seoDesc string) map[string]string {
	errs := map[string]string{}
	checkName(errs, name)
	checkSlug(errs, slugValue)

	switch n := utf8.RuneCountInString(strings.TrimSpace(shortDesc)); {
	case n < minShortDescLen:
		errs["short_description"] = fmt.Sprintf("Short description must be at least %d characters.", minShortDescLen)
	case n > maxShortDescLen:
		errs["short_description"] = fmt.Sprintf("Short description is too long (max %d characters).", maxShortDescLen)
	}

	switch n := utf8.RuneCountInString(strings.TrimSpace(fullDesc)); {
	case n < minFullDescLen:
		errs["full_description"] = fmt.Sprintf("Full description must be at least %d characters.", minFullDescLen)
	case n > maxFullDescLen:
		errs["full_description"] = fmt.Sprintf("Full description is too long (max %d characters).", maxFullDescLen)
	}

	if utf8.RuneCountInString(seoTitle) > maxSEOTitleLen {
		errs["seo_title"] = fmt.Sprintf("SEO title is too long (max %d characters).", maxSEOTitleLen)
	}
	if utf8.RuneCountInString(seoDesc) > maxSEODescLen {
		errs["seo_description"] = fmt.Sprintf("SEO description is too long (max %d characters).", maxSEODescLen)
	}
	return errs
}

func validateStaff(name, slugValue, jobTitle, bio string) map[string]string {
	errs := map[string]string{}
	checkName(errs, name)
	checkSlug(errs, slugValue)

	if utf8.RuneCountInString(strings.TrimSpace(jobTitle)) < minNameLen {
		errs["job_title"] = "Job title is required."
	}
	switch n := utf8.RuneCountInString(strings.TrimSpace(bio)); {
	case n < minFullDescLen:
		errs["bio"] = fmt.Sprintf("Bio must be at least %d characters.", minFullDescLen)
	case n > maxFullDescLen:
		errs["bio"] = fmt.Sprintf("Bio is too long (max %d characters).", maxFullDescLen)
	}
	return errs
}

func validateSocialLink(platform, label, urlValue string) map[string]string {
	errs := map[string]string{}

	known := false
	for _, p := range socialPlatforms {
		if p == platform {
			known = true
			break
		}
	}
	if !known {
		errs["platform"] = "Choose a platform from the list."
	}

	if utf8.RuneCountInString(label) > maxLabelLen {
		errs["label"] = fmt.Sprintf("Label is too long (max %d characters).", maxLabelLen)
	}

	u, err := url.Parse(strings.TrimSpace(urlValue))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs["url"] = "Enter a full URL starting with https://."
	}
	return errs
}

func validateNewUser(email, displayName, password, role string) map[string]string {
	errs := map[string]string{}

	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		errs["email"] = "Enter a valid email address."
	}
	if strings.TrimSpace(displayName) == "" {
		errs["display_name"] = "Display name is required."
	}
	if len(password) < minPasswordLen {
		errs["password"] = fmt.Sprintf("Password must be at least %d characters.", minPasswordLen)
	}
	if r := models.Role(role); r != models.RoleAdmin && r != models.RoleEditor {
		errs["role"] = "Invalid role."
	}
	return errs
}

// checkName enforces the shared name rule: required, at least two characters.
func checkName(errs map[string]string, name string) {
	switch n := utf8.RuneCountInString(strings.TrimSpace(name)); {
	case n < minNameLen:
		errs["name"] = fmt.Sprintf("Name must be at least %d characters.", minNameLen)
	case n > maxNameLen:
		errs["name"] = fmt.Sprintf("Name is too long (max %d characters).", maxNameLen)
	}
}

// checkSlug validates an admin-supplied slug override. An empty slug is
// fine — it is derived from the name instead.
func checkSlug(errs map[string]string, slugValue string) {
	if slugValue == "" {
		return
	}
	if utf8.RuneCountInString(slugValue) > maxSlugLen {
		errs["slug"] = fmt.Sprintf("Slug is too long (max %d characters).", maxSlugLen)
		return
	}
	if !slug.Valid(slugValue) {
		errs["slug"] = "Slug may only contain lowercase letters, digits and single hyphens."
	}
}
