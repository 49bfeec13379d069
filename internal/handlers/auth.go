package handlers

import (
	"errors"
	"net/http"

	applog "recipebox/internal/log"
	"recipebox/internal/store"
	"recipebox/models"
)

const (
	sessionAuthenticatedKey = "auth:authenticated"
	sessionUserIDKey        = "auth:user:id"
	sessionUserNameKey      = "auth:user:name"
	sessionUserRoleKey      = "auth:user:role"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// actor is the caller as seen by the stores. Anonymous callers are guests
// with a zero user id.
type actor struct {
	UserID uint
	Role   store.Role
}

func (a actor) signedIn() bool { return a.UserID > 0 }

func (h *Handlers) establishSession(r *http.Request, user *models.User) error {
	if h.sessions == nil {
		return errors.New("session manager not configured")
	}
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		return err
	}
	h.sessions.Put(r.Context(), sessionAuthenticatedKey, true)
	h.sessions.Put(r.Context(), sessionUserIDKey, int(user.ID))
	h.sessions.Put(r.Context(), sessionUserNameKey, user.Username)
	h.sessions.Put(r.Context(), sessionUserRoleKey, store.UserRole(user).String())
	return nil
}

// ActiveSession returns true when the current request has an authenticated session.
func (h *Handlers) ActiveSession(r *http.Request) bool {
	if h.sessions == nil {
		return false
	}
	return h.sessions.GetBool(r.Context(), sessionAuthenticatedKey) && h.sessions.GetInt(r.Context(), sessionUserIDKey) > 0
}

func (h *Handlers) currentActor(r *http.Request) actor {
	if !h.ActiveSession(r) {
		return actor{Role: store.RoleGuest}
	}
	role, err := store.ParseRole(h.sessions.GetString(r.Context(), sessionUserRoleKey))
	if err != nil {
		role = store.RoleGuest
	}
	return actor{UserID: uint(h.sessions.GetInt(r.Context(), sessionUserIDKey)), Role: role}
}

// RequireAuthentication answers 401 unless the request carries a session.
func (h *Handlers) RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.ActiveSession(r) {
			applog.Debug(r.Context(), "unauthenticated request", "path", r.URL.Path)
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Register creates a registered account and signs it in. Only a signed-in
// admin may create another admin.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	var payload credentialsRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	caller := h.currentActor(r)
	role := store.RoleRegistered
	if payload.Admin {
		if caller.Role != store.RoleAdmin {
			writeJSONError(w, http.StatusForbidden, "only admins can create admin accounts")
			return
		}
		role = store.RoleAdmin
	}

	user, err := h.users.Register(r.Context(), payload.Username, payload.Password, role)
	if err != nil {
		writeStoreError(w, r, err, "register user")
		return
	}

	if !caller.signedIn() {
		if err := h.establishSession(r, user); err != nil {
			applog.Error(r.Context(), "failed to establish session", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "unable to sign in")
			return
		}
	}

	writeJSON(w, http.StatusCreated, projectUser(user))
}

// Login verifies credentials and starts a session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	var payload credentialsRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.users.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeStoreError(w, r, err, "sign in")
		return
	}

	if err := h.establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to sign in")
		return
	}

	applog.Info(r.Context(), "user signed in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, projectUser(user))
}

// Logout destroys the current session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if h.sessions != nil {
		if err := h.sessions.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "unable to sign out")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in account.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	user, err := h.users.Get(r.Context(), h.currentActor(r).UserID)
	if err != nil {
		writeStoreError(w, r, err, "load account")
		return
	}
	writeJSON(w, http.StatusOK, projectUser(user))
}

func projectUser(user *models.User) userResponse {
	return userResponse{ID: user.ID, Username: user.Username, Role: store.UserRole(user).String()}
}
