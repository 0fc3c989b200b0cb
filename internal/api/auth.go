package api

import (
	"net/http"

	"github.com/erazemk/popcornhub/internal/auth"
	"github.com/erazemk/popcornhub/internal/db"
	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*Deps
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID        int64            `json:"id"`
	Username  string           `json:"username"`
	Email     string           `json:"email,omitempty"`
	IsAdmin   bool             `json:"is_admin"`
	CreatedAt *model.Timestamp `json:"created_at,omitempty"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin, CreatedAt: u.CreatedAt}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "username and password required")
		return
	}

	doc, err := h.Docs.Read(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	user := store.GetUserByUsername(doc, req.Username)
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		Logger(r.Context()).Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Username, user.IsAdmin)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	Logger(r.Context()).Info("user logged in", "user", user.Username, "admin", user.IsAdmin)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token})
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	var created model.User
	err = h.Docs.Update(r.Context(), func(doc *model.Document) error {
		u, err := store.CreateUser(doc, req.Username, req.Email, hash, false, h.now())
		if err != nil {
			return err
		}
		created = *u
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	Logger(r.Context()).Info("user signed up", "user", created.Username)
	jsonResponse(w, http.StatusCreated, newUserResponse(&created))
}

// Logout handles POST /api/auth/logout by revoking the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if err := db.RevokeToken(r.Context(), h.DB, claims.ID, claims.Expiry()); err != nil {
		Logger(r.Context()).Error("failed to revoke token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to log out")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	doc, err := h.Docs.Read(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	user := store.GetUser(doc, claims.UserID)
	if user == nil {
		writeError(w, r, &store.NotFoundError{What: "user", ID: claims.UserID})
		return
	}
	jsonResponse(w, http.StatusOK, newUserResponse(user))
}
