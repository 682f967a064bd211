package lifecycle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/models"
)

// Role selects which task list the client reads and which transition
// endpoint it writes to.
type Role string

const (
	RoleClient Role = models.UserTypeClient
	RoleWorker Role = models.UserTypeWorker
)

// Client talks to the marketplace HTTP API on behalf of one signed-in user.
type Client struct {
	BaseURL    string
	Token      string
	Role       Role
	HTTPClient *http.Client
}

// NewClient returns a Client using http.DefaultClient.
func NewClient(baseURL, token string, role Role) *Client {
	return &Client{BaseURL: baseURL, Token: token, Role: role, HTTPClient: http.DefaultClient}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// do sends the request and decodes a 2xx response body into out.
// Non-2xx responses and transport failures come back as *Error.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: KindServer, Message: "malformed response body", Status: resp.StatusCode, Err: err}
		}
		return nil
	}

	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)
	if payload.Error == "" {
		payload.Error = http.StatusText(resp.StatusCode)
	}

	kind := KindServer
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		kind = KindUnauthorized
	case resp.StatusCode == http.StatusConflict:
		kind = KindStateConflict
	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusBadRequest:
		kind = KindValidation
	case resp.StatusCode == http.StatusForbidden:
		kind = KindUnauthorized
	}
	return &Error{Kind: kind, Message: payload.Error, Status: resp.StatusCode}
}

// ListTasks fetches the caller's task list: the client view or the worker
// view depending on Role.
func (c *Client) ListTasks(ctx context.Context) ([]models.TaskView, error) {
	path := "/api/task-status/client-tasks"
	if c.Role == RoleWorker {
		path = "/api/task-status/my"
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "build request", Err: err}
	}
	var views []models.TaskView
	if err := c.do(req, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// UpdateStatus issues the role-appropriate transition request and returns
// the updated assignment.
func (c *Client) UpdateStatus(ctx context.Context, taskID, workerID uuid.UUID, to string) (*models.Assignment, error) {
	var (
		path string
		body any
	)
	if c.Role == RoleWorker {
		path = "/api/task-status/worker-update"
		body = map[string]string{"taskId": taskID.String(), "status": to}
	} else {
		path = fmt.Sprintf("/api/task-status/%s/status/%s", taskID, workerID)
		body = map[string]string{"status": to}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: "encode request", Err: err}
	}
	req, err := c.newRequest(ctx, http.MethodPut, path, bytes.NewReader(raw), "application/json")
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "build request", Err: err}
	}

	var a models.Assignment
	if err := c.do(req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SubmitReview posts the multipart review form for a finished assignment.
func (c *Client) SubmitReview(ctx context.Context, taskID, workerID uuid.UUID, in ReviewInput) (*models.Review, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("text", in.Text); err != nil {
		return nil, &Error{Kind: KindValidation, Message: "encode form", Err: err}
	}
	if in.Rating != nil {
		if err := mw.WriteField("rating", strconv.Itoa(*in.Rating)); err != nil {
			return nil, &Error{Kind: KindValidation, Message: "encode form", Err: err}
		}
	}
	if len(in.Image) > 0 {
		part, err := mw.CreateFormFile("image", "review-image")
		if err != nil {
			return nil, &Error{Kind: KindValidation, Message: "encode form", Err: err}
		}
		if _, err := part.Write(in.Image); err != nil {
			return nil, &Error{Kind: KindValidation, Message: "encode form", Err: err}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, &Error{Kind: KindValidation, Message: "encode form", Err: err}
	}

	path := fmt.Sprintf("/api/reviews/task/%s/worker/%s", taskID, workerID)
	req, err := c.newRequest(ctx, http.MethodPost, path, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "build request", Err: err}
	}

	var review models.Review
	if err := c.do(req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}
