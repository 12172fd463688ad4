package http

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/logger"
	"carrent-backend/internal/service"
	"carrent-backend/internal/storage"

	"github.com/gorilla/mux"
)

// PhotoHandler uploads car photos and serves them back.
type PhotoHandler struct {
	carSvc service.CarService
	photos storage.PhotoStore
}

func NewPhotoHandler(carSvc service.CarService, photos storage.PhotoStore) *PhotoHandler {
	return &PhotoHandler{carSvc: carSvc, photos: photos}
}

// Upload takes the raw image as the request body.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		RespondDomainError(w, r, domain.Validationf("invalid content type"))
		return
	}

	car, err := h.carSvc.UploadPhoto(r.Context(), id, contentType, r.Body)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainCarToResponse(car))
}

func (h *PhotoHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		RespondDomainError(w, r, domain.Validationf("missing photo key"))
		return
	}

	file, err := h.photos.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			RespondDomainError(w, r, domain.NotFoundf("photo %q", key))
			return
		}
		RespondDomainError(w, r, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", storage.ContentTypeFor(key))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, file); err != nil {
		logger.WarnContext(r.Context(), "Photo download interrupted", "key", key, "error", err)
	}
}
