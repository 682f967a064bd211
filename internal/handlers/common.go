package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// pathUUID parses the path segment after prefix as a UUID.
// For /api/task/{id} with prefix "/api/task/" it returns {id}.
func pathUUID(r *http.Request, prefix string) (uuid.UUID, bool) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) == 0 || parts[0] == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// pathUUIDPair parses two UUIDs from a path shaped like
// prefix + "{a}" + sep + "{b}", e.g. /api/task-status/{taskId}/status/{workerId}.
func pathUUIDPair(r *http.Request, prefix, sep string) (uuid.UUID, uuid.UUID, bool) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	idx := strings.Index(rest, sep)
	if idx < 0 {
		return uuid.Nil, uuid.Nil, false
	}
	a, err := uuid.Parse(rest[:idx])
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	b, err := uuid.Parse(strings.Trim(rest[idx+len(sep):], "/"))
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return a, b, true
}
