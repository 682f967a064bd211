package router

import (
	"net/http"
	"strings"

	"github.com/findworker/backend/internal/auth"
	"github.com/findworker/backend/internal/handlers"
	"github.com/findworker/backend/internal/middleware"
)

// Handlers bundles the per-surface handlers the router wires up.
type Handlers struct {
	Auth     *auth.Handler
	Profile  *handlers.ProfileHandler
	Tasks    *handlers.TaskHandler
	Status   *handlers.StatusHandler
	Reviews  *handlers.ReviewHandler
	Match    *handlers.MatchHandler
	Busy     *handlers.BusyHandler
	Notices  *handlers.NoticeHandler
	Messages *handlers.MessageHandler
	Admin    *handlers.AdminHandler
	Reports  *handlers.ReportHandler
}

// New returns an http.Handler serving the API under /api. Everything except
// registration and login sits behind the auth middleware; /api/admin and
// notice writes additionally require the ADMIN user type.
func New(h Handlers, authMW func(http.Handler) http.Handler) http.Handler {
	protected := http.NewServeMux()

	protected.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Auth.Me(w, r)
		case http.MethodPut:
			h.Profile.Update(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	protected.HandleFunc("/api/users/me/picture", methodPUT(h.Profile.UpdatePicture))

	protected.HandleFunc("/api/task", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Tasks.ListMine(w, r)
		case http.MethodPost:
			h.Tasks.Create(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	protected.HandleFunc("/api/task/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			h.Tasks.Update(w, r)
		case http.MethodDelete:
			h.Tasks.Delete(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	protected.HandleFunc("/api/match/workers/", methodGET(h.Match.Workers))

	protected.HandleFunc("/api/task-status/client-tasks", methodGET(h.Status.ClientTasks))
	protected.HandleFunc("/api/task-status/my", methodGET(h.Status.MyTasks))
	protected.HandleFunc("/api/task-status/update", methodPUT(h.Status.Assign))
	protected.HandleFunc("/api/task-status/worker-update", methodPUT(h.Status.WorkerUpdate))
	protected.HandleFunc("/api/task-status/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && strings.Contains(r.URL.Path, "/status/") {
			h.Status.ClientUpdate(w, r)
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	protected.HandleFunc("/api/reviews/task/", methodPOST(h.Reviews.Submit))
	protected.HandleFunc("/api/reviews/worker/reviews", methodGET(h.Reviews.MyReviews))

	protected.HandleFunc("/api/busy", methodPOST(h.Busy.Create))
	protected.HandleFunc("/api/busy/my", methodGET(h.Busy.My))
	protected.HandleFunc("/api/busy/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			h.Busy.Update(w, r)
		case http.MethodDelete:
			h.Busy.Delete(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	protected.HandleFunc("/api/notices/Show", methodGET(h.Notices.List))
	protected.Handle("/api/notices/create", middleware.RequireAdmin(methodPOST(h.Notices.Create)))
	protected.Handle("/api/notices/", middleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			h.Notices.Update(w, r)
		case http.MethodDelete:
			h.Notices.Delete(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	protected.HandleFunc("/api/messages", methodPOST(h.Messages.Send))
	protected.HandleFunc("/api/messages/conversation-users", methodGET(h.Messages.ConversationUsers))
	protected.HandleFunc("/api/messages/conversation/", methodGET(h.Messages.Conversation))
	protected.HandleFunc("/api/messages/users/search", methodGET(h.Messages.SearchUsers))

	protected.Handle("/api/admin/", middleware.RequireAdmin(adminRoutes(h.Admin)))

	protected.HandleFunc("/api/report/worker", methodGET(h.Reports.Worker))
	protected.Handle("/api/report/data", middleware.RequireAdmin(methodPOST(h.Reports.Platform)))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/reg", methodPOST(h.Auth.Register))
	mux.HandleFunc("/api/login", methodPOST(h.Auth.Login))
	mux.Handle("/api/", authMW(protected))
	return mux
}

func adminRoutes(h *handlers.AdminHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/users", methodGET(h.ListUsers))
	mux.HandleFunc("/api/admin/users/search", methodGET(h.SearchUsers))
	mux.HandleFunc("/api/admin/users/delete/", methodDELETE(h.DeleteUser))
	mux.HandleFunc("/api/admin/users/", methodPUT(h.SetActive))
	return mux
}

func methodGET(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func methodPOST(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func methodPUT(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func methodDELETE(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}
