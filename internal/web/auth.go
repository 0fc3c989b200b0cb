package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/popcornhub/internal/auth"
	"github.com/erazemk/popcornhub/internal/db"
	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/store"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &struct {
		PageData
		Username string
	}{PageData: s.page(w, r, "Log in")})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	render := func(msg string) {
		s.Templates.Render(w, "login.html", &struct {
			PageData
			Username string
		}{PageData: PageData{Title: "Log in", Error: msg}, Username: username})
	}

	if username == "" || password == "" {
		render("Enter your username and password.")
		return
	}

	doc, err := s.Docs.Read(r.Context())
	if err != nil {
		render(errorMessage(err))
		return
	}

	user := store.GetUserByUsername(doc, username)
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		slog.Warn("login failed", "username", username, "remote", r.RemoteAddr)
		render("Wrong username or password.")
		return
	}

	if err := s.startSession(w, user); err != nil {
		slog.Error("failed to start session", "user", user.Username, "error", err)
		render(internalErrorMessage)
		return
	}

	slog.Info("user logged in", "user", user.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignupPage handles GET /signup.
func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "signup.html", &struct {
		PageData
		Username string
		Email    string
	}{PageData: s.page(w, r, "Sign up")})
}

// SignupSubmit handles POST /signup.
func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	render := func(msg string) {
		s.Templates.Render(w, "signup.html", &struct {
			PageData
			Username string
			Email    string
		}{PageData: PageData{Title: "Sign up", Error: msg}, Username: username, Email: email})
	}

	if password != r.FormValue("confirm") {
		render("The passwords do not match.")
		return
	}
	if err := model.ValidatePassword(password); err != nil {
		render("The password must be at least 8 characters long.")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		render(internalErrorMessage)
		return
	}

	var created model.User
	err = s.Docs.Update(r.Context(), func(doc *model.Document) error {
		u, err := store.CreateUser(doc, username, email, hash, false, s.now())
		if err != nil {
			return err
		}
		created = *u
		return nil
	})
	if err != nil {
		render(errorMessage(err))
		return
	}

	if err := s.startSession(w, &created); err != nil {
		slog.Error("failed to start session", "user", created.Username, "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	slog.Info("user signed up", "user", created.Username)
	setFlash(w, true, "Welcome to PopcornHub, "+created.Username+"!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. The session token is revoked so a copied
// cookie stops working too.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.JWTSecret, cookie.Value); err == nil {
			if err := db.RevokeToken(r.Context(), s.DB, claims.ID, claims.Expiry()); err != nil {
				slog.Error("failed to revoke token", "error", err)
			}
		}
	}
	clearCookie(w, tokenCookie)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) startSession(w http.ResponseWriter, user *model.User) error {
	token, err := auth.GenerateToken(s.JWTSecret, user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(auth.TokenExpiry.Seconds()),
	})
	return nil
}
