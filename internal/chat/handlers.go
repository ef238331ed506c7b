package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vinhngx/backend-foodee/internal/common"
)

// Handler exposes the customer side of support chat.
type Handler struct {
	Svc *Service
}

// Post handles POST /chat/messages.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var in struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	m, err := h.Svc.Post(r.Context(), userID, SenderCustomer, in.Body)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_MESSAGE", "message body is empty", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, m)
}

// List handles GET /chat/messages?after=<RFC3339>.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	msgs, err := h.Svc.ListSince(r.Context(), userID, parseAfter(r), 0)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if msgs == nil {
		msgs = []Message{}
	}
	common.JSONData(w, http.StatusOK, msgs)
}

// AdminHandler exposes the back-office side of support chat.
type AdminHandler struct {
	Svc *Service
}

// Threads handles GET /admin/chat/threads.
func (h *AdminHandler) Threads(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20, 100)
	threads, err := h.Svc.Threads(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if threads == nil {
		threads = []Thread{}
	}
	common.JSONData(w, http.StatusOK, threads)
}

// Messages handles GET /admin/chat/threads/{userId}/messages?after=.
func (h *AdminHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Svc.ListSince(r.Context(), chi.URLParam(r, "userId"), parseAfter(r), 0)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if msgs == nil {
		msgs = []Message{}
	}
	common.JSONData(w, http.StatusOK, msgs)
}

// Reply handles POST /admin/chat/threads/{userId}/messages.
func (h *AdminHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	m, err := h.Svc.Post(r.Context(), chi.URLParam(r, "userId"), SenderAdmin, in.Body)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_MESSAGE", "message body is empty", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, m)
}

func parseAfter(r *http.Request) time.Time {
	raw := r.URL.Query().Get("after")
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
