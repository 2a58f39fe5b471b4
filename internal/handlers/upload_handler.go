package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"easyserve/internal/models"
	"easyserve/utils"
)

// maxUploadSize caps a single multipart upload at 10 MB.
const maxUploadSize = 10 << 20

type UploadHandler struct {
	Storage *utils.S3Storage
}

// UploadImages accepts multipart files under the "images" field and stores
// them in the object store. The response carries the image descriptors that
// request and bid payloads embed.
func (h *UploadHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	if h.Storage == nil {
		http.Error(w, "File storage is not configured", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	folder := r.URL.Query().Get("folder")
	if folder == "" {
		folder = "requests"
	}

	var images []models.Image
	for _, fh := range files {
		file, err := fh.Open()
		if err != nil {
			http.Error(w, "Failed to read uploaded file", http.StatusInternalServerError)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			http.Error(w, "Failed to read uploaded file", http.StatusInternalServerError)
			return
		}

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		url, err := h.Storage.Upload(data, fh.Filename, folder, contentType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		images = append(images, models.Image{
			Name: fh.Filename,
			Path: url,
			Type: contentType,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(images)
}
