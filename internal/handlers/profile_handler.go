package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/findworker/backend/internal/middleware"
	"github.com/findworker/backend/internal/models"
)

// maxProfilePictureBytes caps profile picture uploads.
const maxProfilePictureBytes = 2 * 1024 * 1024

// ProfileRepo is the user repository subset used by profile updates.
type ProfileRepo interface {
	UpdateProfile(ctx context.Context, u *models.User) error
	UpdateProfilePicture(ctx context.Context, id uuid.UUID, picture []byte) error
}

// ProfileHandler serves the authenticated user's own profile.
type ProfileHandler struct {
	Users     ProfileRepo
	Validator *validator.Validate
	Logger    *slog.Logger
}

type updateProfileRequest struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	Skills     string `json:"skills"`
	HourlyRate *int64 `json:"hourlyRate"`
}

// Update handles PUT /api/users/me.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		http.Error(w, `{"error":"missing or invalid fields"}`, http.StatusBadRequest)
		return
	}
	if req.HourlyRate != nil && *req.HourlyRate < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "hourlyRate must be >= 0"})
		return
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	user.City = req.City
	user.Skills = req.Skills
	user.HourlyRate = req.HourlyRate

	if err := h.Users.UpdateProfile(r.Context(), user); err != nil {
		h.Logger.Error("update profile", "user_id", user.ID, "error", err)
		http.Error(w, `{"error":"failed to update profile"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdatePicture handles PUT /api/users/me/picture. The body is the raw image.
func (h *ProfileHandler) UpdatePicture(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	picture, err := io.ReadAll(io.LimitReader(r.Body, maxProfilePictureBytes+1))
	if err != nil {
		http.Error(w, `{"error":"failed to read image"}`, http.StatusBadRequest)
		return
	}
	if len(picture) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image is required"})
		return
	}
	if len(picture) > maxProfilePictureBytes {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image too large"})
		return
	}

	if err := h.Users.UpdateProfilePicture(r.Context(), user.ID, picture); err != nil {
		h.Logger.Error("update profile picture", "user_id", user.ID, "error", err)
		http.Error(w, `{"error":"failed to update picture"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
