package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/propdash/internal/application"
)

const maxRequestBody = 1 << 20

type sessionRegistry interface {
	Client(ctx context.Context, clientID string) (*application.SessionManager, error)
}

type userLister interface {
	ListUsers(ctx context.Context) ([]application.User, error)
}

type SessionHandler struct {
	sessions  sessionRegistry
	users     userLister
	responder responder
	logger    *slog.Logger
}

func NewSessionHandler(sessions sessionRegistry, users userLister, logger *slog.Logger) *SessionHandler {
	base := defaultLogger(logger)
	return &SessionHandler{sessions: sessions, users: users, responder: newResponder(base), logger: base}
}

func (h *SessionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SessionHandler", operation, attrs...)
}

// manager resolves the caller's session manager, writing the error response
// itself when that fails.
func (h *SessionHandler) manager(w http.ResponseWriter, r *http.Request, operation string) (*application.SessionManager, bool) {
	if h == nil || h.sessions == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	clientID, ok := ClientIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), operation, "error_kind", "bad_request").WarnContext(r.Context(), "request without client id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingClient)
		return nil, false
	}
	manager, err := h.sessions.Client(r.Context(), clientID)
	if err != nil {
		h.log(r.Context(), operation).ErrorContext(r.Context(), "failed to load client session", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return nil, false
	}
	return manager, true
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	manager, ok := h.manager(w, r, "Login")
	if !ok {
		return
	}

	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingEmail)
		return
	}
	logger := h.log(r.Context(), "Login", "email", email)

	authenticated, err := manager.Login(r.Context(), email, req.Password)
	if err != nil {
		logger.ErrorContext(r.Context(), "login failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if !authenticated {
		logger.InfoContext(r.Context(), "login rejected", "error_kind", application.ErrorKind(application.ErrInvalidCredentials))
		h.responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   statusMessage(http.StatusUnauthorized),
		})
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, newSessionResponse(manager))
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	manager, ok := h.manager(w, r, "Logout")
	if !ok {
		return
	}

	if err := manager.Logout(r.Context()); err != nil {
		h.log(r.Context(), "Logout").ErrorContext(r.Context(), "logout failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *SessionHandler) SwitchUser(w http.ResponseWriter, r *http.Request) {
	manager, ok := h.manager(w, r, "SwitchUser")
	if !ok {
		return
	}

	var req switchUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.log(r.Context(), "SwitchUser", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode switch request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingUserID)
		return
	}

	switched, err := manager.SwitchUser(r.Context(), userID)
	if err != nil {
		h.log(r.Context(), "SwitchUser", "user_id", userID).ErrorContext(r.Context(), "switch user failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if !switched {
		h.responder.handleServiceError(r.Context(), w, application.ErrNotFound)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, newSessionResponse(manager))
}

func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	manager, ok := h.manager(w, r, "Current")
	if !ok {
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, newSessionResponse(manager))
}

func (h *SessionHandler) DemoUsers(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.users == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.log(r.Context(), "DemoUsers").ErrorContext(r.Context(), "failed to list demo users", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]demoUserDTO, 0, len(users))
	for _, user := range users {
		out = append(out, demoUserDTO{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role, Avatar: user.Avatar})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	return decoder.Decode(target)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type switchUserRequest struct {
	UserID string `json:"user_id"`
}

type sessionResponse struct {
	User    *application.User      `json:"user"`
	Role    application.Role       `json:"role,omitempty"`
	Data    application.DataBundle `json:"data"`
	Loading bool                   `json:"loading"`
}

func newSessionResponse(manager *application.SessionManager) sessionResponse {
	resp := sessionResponse{Loading: manager.Loading()}
	if session, ok := manager.Current(); ok {
		user := session.User
		resp.User = &user
		resp.Role = user.Role
		resp.Data = session.Data
	}
	return resp
}

type demoUserDTO struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Email  string           `json:"email"`
	Role   application.Role `json:"role"`
	Avatar string           `json:"avatar,omitempty"`
}
