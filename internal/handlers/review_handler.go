package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/middleware"
	"github.com/findworker/backend/internal/models"
	"github.com/findworker/backend/internal/services"
	"github.com/findworker/backend/internal/status"
)

// Reviews abstracts the review service for testability.
type Reviews interface {
	Submit(ctx context.Context, client *models.User, in services.SubmitInput) (*models.Review, error)
	ListForWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Review, error)
}

// ReviewHandler serves /api/reviews endpoints.
type ReviewHandler struct {
	Reviews Reviews
	Logger  *slog.Logger
}

// Submit handles POST /api/reviews/task/{taskId}/worker/{workerId}.
// The body is multipart form data with fields text, rating (optional) and
// image (optional file, capped at 5 MB).
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	taskID, workerID, ok := pathUUIDPair(r, "/api/reviews/task/", "/worker/")
	if !ok {
		http.Error(w, `{"error":"invalid path"}`, http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(int64(models.MaxReviewImageBytes) + 1<<20); err != nil {
		http.Error(w, `{"error":"invalid multipart form"}`, http.StatusBadRequest)
		return
	}

	in := services.SubmitInput{
		TaskID:   taskID,
		WorkerID: workerID,
		Text:     r.FormValue("text"),
	}
	if raw := r.FormValue("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rating must be a number"})
			return
		}
		in.Rating = &rating
	}
	if file, _, err := r.FormFile("image"); err == nil {
		defer file.Close()
		img, err := io.ReadAll(io.LimitReader(file, int64(models.MaxReviewImageBytes)+1))
		if err != nil {
			http.Error(w, `{"error":"failed to read image"}`, http.StatusBadRequest)
			return
		}
		in.Image = img
	}

	review, err := h.Reviews.Submit(r.Context(), user, in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadyReviewed):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, status.ErrStateConflict):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, services.ErrNotFound):
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		case errors.Is(err, services.ErrForbidden):
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		default:
			h.Logger.Error("submit review", "task_id", taskID, "error", err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// MyReviews handles GET /api/reviews/worker/reviews — reviews written about
// the calling worker.
func (h *ReviewHandler) MyReviews(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	reviews, err := h.Reviews.ListForWorker(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("list worker reviews", "error", err)
		http.Error(w, `{"error":"failed to list reviews"}`, http.StatusInternalServerError)
		return
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}
