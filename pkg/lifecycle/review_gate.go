package lifecycle

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/models"
)

// ReviewInput is the review form as filled in by the client.
type ReviewInput struct {
	Rating *int
	Text   string
	Image  []byte
}

// ReviewSubmitter posts one review.
type ReviewSubmitter interface {
	SubmitReview(ctx context.Context, taskID, workerID uuid.UUID, in ReviewInput) (*models.Review, error)
}

// ReviewGate controls when the review form is offered and validates the
// form before it goes out. Like the Dispatcher it never writes to the
// Store; the caller applies the returned view.
type ReviewGate struct {
	store     *Store
	submitter ReviewSubmitter
}

// NewReviewGate returns a ReviewGate over the store.
func NewReviewGate(store *Store, submitter ReviewSubmitter) *ReviewGate {
	return &ReviewGate{store: store, submitter: submitter}
}

// CanReview reports whether the assignment can be reviewed: it ended in
// COMPLETED or INCOMPLETED and carries no review yet.
func CanReview(view models.TaskView) bool {
	finished := view.Status == models.StatusCompleted || view.Status == models.StatusIncompleted
	return finished && view.ReviewID == nil
}

// Submit validates the form locally, posts it, and returns the view with
// the new review attached so CanReview flips false immediately.
func (g *ReviewGate) Submit(ctx context.Context, taskID, workerID uuid.UUID, in ReviewInput) (models.TaskView, error) {
	view, ok := g.store.Get(taskID, workerID)
	if !ok {
		return models.TaskView{}, newError(KindStateConflict, "task %s is not in the local snapshot", taskID)
	}
	if !CanReview(view) {
		return models.TaskView{}, newError(KindStateConflict, "task is not reviewable")
	}
	if err := validateInput(view.Status, in); err != nil {
		return models.TaskView{}, err
	}

	review, err := g.submitter.SubmitReview(ctx, taskID, workerID, in)
	if err != nil {
		return models.TaskView{}, err
	}

	view.ReviewID = &review.ID
	view.Rating = review.Rating
	return view, nil
}

func validateInput(taskStatus string, in ReviewInput) error {
	if strings.TrimSpace(in.Text) == "" {
		return newError(KindValidation, "review text is required")
	}
	if taskStatus == models.StatusCompleted {
		if in.Rating == nil {
			return newError(KindValidation, "rating is required for completed tasks")
		}
		if *in.Rating < 1 || *in.Rating > 5 {
			return newError(KindValidation, "rating must be between 1 and 5")
		}
	} else if in.Rating != nil {
		return newError(KindValidation, "rating is only allowed for completed tasks")
	}
	if len(in.Image) > models.MaxReviewImageBytes {
		return newError(KindValidation, "image exceeds %d bytes", models.MaxReviewImageBytes)
	}
	return nil
}
