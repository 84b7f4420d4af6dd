// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/gatherly/auth"
	"github.com/danielhkuo/gatherly/cliparse"
	"github.com/danielhkuo/gatherly/middleware"
	"github.com/danielhkuo/gatherly/models"
	"github.com/danielhkuo/gatherly/storage"
	"github.com/danielhkuo/gatherly/store"
)

type FileHandler struct {
	st        *store.Store
	blobs     *storage.Store
	extractor storage.Extractor
	cfg       cliparse.Config
}

func NewFileHandler(st *store.Store, blobs *storage.Store, extractor storage.Extractor, cfg cliparse.Config) *FileHandler {
	return &FileHandler{st: st, blobs: blobs, extractor: extractor, cfg: cfg}
}

// decorate fills the derived presentation fields on a metadata row.
func (h *FileHandler) decorate(f *models.UploadedFile) {
	f.SizeLabel = humanize.Bytes(uint64(f.Size))
	f.URL = h.cfg.BaseURL + "/files/" + f.Name
}

// Upload handles POST /files. The multipart field "files" may carry
// several documents; each is validated, stored under a unique name, run
// through the text extractor, and recorded in the metadata table.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)

	if err := r.ParseMultipartForm(storage.MaxFileSize); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "no files provided")
		return
	}

	uploaded := []models.UploadedFile{}
	for _, part := range parts {
		contentType := part.Header.Get("Content-Type")
		if err := storage.Validate(contentType, part.Size); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, part.Filename+": "+err.Error())
			return
		}

		src, err := part.Open()
		if err != nil {
			slog.Error("failed to open multipart file", "name", part.Filename, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read upload")
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			slog.Error("failed to read multipart file", "name", part.Filename, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read upload")
			return
		}

		name, err := storage.UniqueName(part.Filename, contentType)
		if err != nil {
			slog.Error("failed to build stored name", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store upload")
			return
		}
		if err := h.blobs.Put(name, data); err != nil {
			slog.Error("failed to store blob", "name", name, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store upload")
			return
		}

		file := models.UploadedFile{
			ID:           auth.NewID(),
			Name:         name,
			OriginalName: part.Filename,
			ContentType:  contentType,
			Size:         int64(len(data)),
			UploadedBy:   user.ID,
			UploadedAt:   time.Now(),
		}
		text, err := h.extractor.Extract(part.Filename, contentType, data)
		if err != nil {
			// Extraction failures don't block the upload; the error is
			// kept on the row.
			msg := err.Error()
			file.ExtractionError = &msg
			slog.Warn("text extraction failed", "name", part.Filename, "error", err)
		} else if text != "" {
			file.ExtractedText = &text
		}

		if err := h.st.InsertUpload(r.Context(), &file); err != nil {
			slog.Error("failed to insert upload row", "name", name, "error", err)
			if derr := h.blobs.Delete(name); derr != nil {
				slog.Warn("failed to remove orphaned blob", "name", name, "error", derr)
			}
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store upload")
			return
		}

		h.decorate(&file)
		uploaded = append(uploaded, file)
	}

	slog.Info("files uploaded", "count", len(uploaded), "user_id", user.ID)
	middleware.JSONResponse(w, http.StatusCreated, models.UploadResponse{Files: uploaded})
}

// List handles GET /files
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.st.ListUploads(r.Context())
	if err != nil {
		slog.Error("failed to list uploads", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to list files")
		return
	}
	for i := range files {
		h.decorate(&files[i])
	}
	middleware.JSONResponse(w, http.StatusOK, models.UploadResponse{Files: files})
}

// Download handles GET /files/{name}
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	meta, err := h.st.FindUploadByName(r.Context(), name)
	if err != nil {
		slog.Error("failed to query upload", "name", name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if meta == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "File not found")
		return
	}

	data, err := h.blobs.Get(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "File not found")
			return
		}
		slog.Error("failed to read blob", "name", name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Content-Disposition", `inline; filename="`+meta.OriginalName+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Delete handles DELETE /files/{name}
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	meta, err := h.st.FindUploadByName(r.Context(), name)
	if err != nil {
		slog.Error("failed to query upload", "name", name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if meta == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "File not found")
		return
	}

	if err := h.blobs.Delete(name); err != nil {
		slog.Warn("failed to delete blob", "name", name, "error", err)
	}
	if err := h.st.DeleteUploadByName(r.Context(), name); err != nil {
		slog.Error("failed to delete upload row", "name", name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	slog.Info("file deleted", "name", name)
	w.WriteHeader(http.StatusNoContent)
}
