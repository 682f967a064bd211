package lifecycle

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/models"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type countingSubmitter struct {
	calls  int
	result *models.Review
	err    error
}

func (s *countingSubmitter) SubmitReview(context.Context, uuid.UUID, uuid.UUID, ReviewInput) (*models.Review, error) {
	s.calls++
	return s.result, s.err
}

func ratingPtr(n int) *int { return &n }

// ---------------------------------------------------------------------------
// CanReview
// ---------------------------------------------------------------------------

func TestCanReview(t *testing.T) {
	reviewID := uuid.New()
	tests := []struct {
		name string
		view models.TaskView
		want bool
	}{
		{"completed unreviewed", models.TaskView{Status: models.StatusCompleted}, true},
		{"incompleted unreviewed", models.TaskView{Status: models.StatusIncompleted}, true},
		{"completed already reviewed", models.TaskView{Status: models.StatusCompleted, ReviewID: &reviewID}, false},
		{"confirmed is not finished", models.TaskView{Status: models.StatusConfirmed}, false},
		{"cancelled is not reviewable", models.TaskView{Status: models.StatusCancelled}, false},
		{"rejected is not reviewable", models.TaskView{Status: models.StatusRejected}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanReview(tt.view); got != tt.want {
				t.Errorf("CanReview = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Submit validation (no network on failure)
// ---------------------------------------------------------------------------

func TestReviewSubmit_ValidationFailsLocally(t *testing.T) {
	completed := view(models.StatusCompleted)
	incompleted := view(models.StatusIncompleted)

	tests := []struct {
		name string
		view models.TaskView
		in   ReviewInput
	}{
		{"empty text", completed, ReviewInput{Rating: ratingPtr(4)}},
		{"whitespace text", completed, ReviewInput{Rating: ratingPtr(4), Text: "   "}},
		{"missing rating on completed", completed, ReviewInput{Text: "fine"}},
		{"rating zero", completed, ReviewInput{Rating: ratingPtr(0), Text: "fine"}},
		{"rating six", completed, ReviewInput{Rating: ratingPtr(6), Text: "fine"}},
		{"rating on incompleted", incompleted, ReviewInput{Rating: ratingPtr(1), Text: "no show"}},
		{"oversized image", completed, ReviewInput{
			Rating: ratingPtr(3), Text: "ok",
			Image: bytes.Repeat([]byte{1}, models.MaxReviewImageBytes+1),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &countingSubmitter{}
			g := NewReviewGate(storeWith(tt.view), sub)

			_, err := g.Submit(context.Background(), tt.view.TaskID, tt.view.WorkerID, tt.in)
			if KindOf(err) != KindValidation {
				t.Fatalf("kind = %q, want ValidationError", KindOf(err))
			}
			if sub.calls != 0 {
				t.Errorf("submitter called %d times, want 0", sub.calls)
			}
		})
	}
}

func TestReviewSubmit_UnreviewableTaskIsConflict(t *testing.T) {
	v := view(models.StatusConfirmed)
	sub := &countingSubmitter{}
	g := NewReviewGate(storeWith(v), sub)

	_, err := g.Submit(context.Background(), v.TaskID, v.WorkerID, ReviewInput{Rating: ratingPtr(5), Text: "x"})
	if KindOf(err) != KindStateConflict {
		t.Fatalf("kind = %q, want StateConflict", KindOf(err))
	}
	if sub.calls != 0 {
		t.Errorf("submitter called %d times, want 0", sub.calls)
	}
}

// ---------------------------------------------------------------------------
// Successful submission
// ---------------------------------------------------------------------------

func TestReviewSubmit_CompletedFlipsCanReview(t *testing.T) {
	v := view(models.StatusCompleted)
	sub := &countingSubmitter{result: &models.Review{
		ID: uuid.New(), TaskID: v.TaskID, WorkerID: v.WorkerID, Rating: ratingPtr(5), Text: "great",
	}}
	store := storeWith(v)
	g := NewReviewGate(store, sub)

	updated, err := g.Submit(context.Background(), v.TaskID, v.WorkerID, ReviewInput{Rating: ratingPtr(5), Text: "great"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if updated.ReviewID == nil || CanReview(updated) {
		t.Fatalf("updated view still reviewable: %+v", updated)
	}

	store.ApplyLocalUpdate(updated)
	inStore, _ := store.Get(v.TaskID, v.WorkerID)
	if CanReview(inStore) {
		t.Errorf("CanReview still true after ApplyLocalUpdate")
	}
}

func TestReviewSubmit_IncompletedTextOnly(t *testing.T) {
	v := view(models.StatusIncompleted)
	sub := &countingSubmitter{result: &models.Review{
		ID: uuid.New(), TaskID: v.TaskID, WorkerID: v.WorkerID, Text: "never arrived",
	}}
	g := NewReviewGate(storeWith(v), sub)

	updated, err := g.Submit(context.Background(), v.TaskID, v.WorkerID, ReviewInput{Text: "never arrived"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if updated.ReviewID == nil {
		t.Errorf("review id not attached")
	}
	if updated.Rating != nil {
		t.Errorf("rating = %v, want nil", updated.Rating)
	}
}

// ---------------------------------------------------------------------------
// Wire format
// ---------------------------------------------------------------------------

func TestReviewSubmit_SendsMultipartForm(t *testing.T) {
	var gotText, gotRating string
	var gotImageLen int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(models.MaxReviewImageBytes + 1<<20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		gotText = r.FormValue("text")
		gotRating = r.FormValue("rating")
		if file, _, err := r.FormFile("image"); err == nil {
			buf := new(bytes.Buffer)
			_, _ = buf.ReadFrom(file)
			gotImageLen = buf.Len()
			file.Close()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Review{ID: uuid.New()})
	}))
	defer srv.Close()

	v := view(models.StatusCompleted)
	client := NewClient(srv.URL, "token", RoleClient)
	g := NewReviewGate(storeWith(v), client)

	_, err := g.Submit(context.Background(), v.TaskID, v.WorkerID, ReviewInput{
		Rating: ratingPtr(4),
		Text:   "nice job",
		Image:  []byte{0x89, 0x50, 0x4e, 0x47},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if gotText != "nice job" || gotRating != "4" || gotImageLen != 4 {
		t.Errorf("form: text=%q rating=%q imageLen=%d", gotText, gotRating, gotImageLen)
	}
}
