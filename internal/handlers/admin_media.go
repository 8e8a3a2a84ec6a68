// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"clinicsite/internal/imaging"
	"clinicsite/internal/middleware"
	"clinicsite/internal/models"
	"clinicsite/internal/render"
)

// maxUploadBytes caps the multipart body for photo uploads. The imaging
// pipeline shrinks everything for delivery, so the cap only guards memory.
const maxUploadBytes = 25 << 20

// PhotosPage renders the photo library with the upload form.
func (a *Admin) PhotosPage(w http.ResponseWriter, r *http.Request) {
	a.renderPhotos(w, r, "")
}

func (a *Admin) renderPhotos(w http.ResponseWriter, r *http.Request, uploadErr string) {
	photos, err := a.media.List()
	if err != nil {
		slog.Error("list photos failed", "error", err)
	}

	urls := make(map[uuid.UUID]string, len(photos))
	if a.storage != nil {
		for _, p := range photos {
			key := p.S3Key
			if p.ThumbS3Key != nil {
				key = *p.ThumbS3Key
			}
			urls[p.ID] = a.storage.FileURL(key)
		}
	}

	a.renderer.Page(w, r, "photos", &render.PageData{
		Title:   "Photos",
		Section: "photos",
		Data: map[string]any{
			"UploadsEnabled": a.storage != nil,
			"UploadError":    uploadErr,
			"Photos":         photos,
			"PhotoURLs":      urls,
		},
	})
}

// PhotoUpload accepts a multipart photo upload, runs it through the imaging
// pipeline and stores the WebP display image plus a JPEG thumbnail in the
// bucket. A thumbnail failure is survivable; a display failure is not.
func (a *Admin) PhotoUpload(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		http.Error(w, "Uploads are disabled", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.renderPhotos(w, r, "The file is too large (max 25 MB).")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		a.renderPhotos(w, r, "Choose a file to upload.")
		return
	}
	defer file.Close()

	original, err := io.ReadAll(file)
	if err != nil {
		slog.Error("read upload failed", "error", err)
		a.renderPhotos(w, r, "Could not read the uploaded file.")
		return
	}

	result, err := imaging.Process(original)
	if err != nil {
		var imgErr *imaging.Error
		if errors.As(err, &imgErr) {
			a.renderPhotos(w, r, imgErr.Reason)
			return
		}
		slog.Error("process upload failed", "error", err)
		a.renderPhotos(w, r, "Could not process the image.")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()
	name := uuid.New().String()
	displayKey := fmt.Sprintf("photos/%d/%02d/%s.webp", now.Year(), now.Month(), name)

	if err := a.storage.Upload(ctx, displayKey, result.ContentType,
		bytes.NewReader(result.Display), int64(len(result.Display))); err != nil {
		slog.Error("upload display image failed", "error", err)
		a.renderPhotos(w, r, "Could not store the photo. Please try again.")
		return
	}

	var thumbKey *string
	tk := fmt.Sprintf("photos/%d/%02d/%s_thumb.jpg", now.Year(), now.Month(), name)
	if err := a.storage.Upload(ctx, tk, "image/jpeg",
		bytes.NewReader(result.Thumb), int64(len(result.Thumb))); err != nil {
		slog.Warn("upload thumbnail failed", "error", err)
	} else {
		thumbKey = &tk
	}

	sess := middleware.SessionFromCtx(ctx)
	if _, err := a.media.Create(&models.Media{
		Filename:     name + ".webp",
		OriginalName: header.Filename,
		ContentType:  result.ContentType,
		SizeBytes:    int64(len(result.Display)),
		Width:        result.Width,
		Height:       result.Height,
		Bucket:       a.storage.Bucket(),
		S3Key:        displayKey,
		ThumbS3Key:   thumbKey,
		AltText:      optStr(r.FormValue("alt_text")),
		UploaderID:   sess.UserID,
	}); err != nil {
		slog.Error("create media record failed", "error", err)
		a.renderPhotos(w, r, "Could not save the photo. Please try again.")
		return
	}

	http.Redirect(w, r, "/admin/photos", http.StatusSeeOther)
}

// PhotoDelete removes a photo record and best-effort deletes the stored
// objects. Entities referencing the photo keep rendering without one.
func (a *Admin) PhotoDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	item, err := a.media.FindByID(id)
	if err != nil || item == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := a.media.Delete(id); err != nil {
		slog.Error("delete media record failed", "error", err)
		a.renderPhotos(w, r, "Could not delete the photo.")
		return
	}

	if a.storage != nil {
		ctx := r.Context()
		if err := a.storage.Delete(ctx, item.S3Key); err != nil {
			slog.Warn("delete stored photo failed", "key", item.S3Key, "error", err)
		}
		if item.ThumbS3Key != nil {
			if err := a.storage.Delete(ctx, *item.ThumbS3Key); err != nil {
				slog.Warn("delete stored thumbnail failed", "key", *item.ThumbS3Key, "error", err)
			}
		}
	}

	a.invalidatePublic(r)
	http.Redirect(w, r, "/admin/photos", http.StatusSeeOther)
}
