package web

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/erazemk/popcornhub/internal/auth"
	"github.com/erazemk/popcornhub/internal/db"
	"github.com/erazemk/popcornhub/internal/docstore"
	"github.com/erazemk/popcornhub/internal/store"
	"github.com/erazemk/popcornhub/internal/tmdb"
)

type webContextKey string

const webClaimsKey webContextKey = "webclaims"

const (
	tokenCookie = "token"
	flashCookie = "flash"
)

// CookieAuthMiddleware validates the session cookie, checks token revocation,
// and adds claims to context.
func CookieAuthMiddleware(secret string, database *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(tokenCookie)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			claims, err := auth.ValidateToken(secret, cookie.Value)
			if err != nil {
				clearCookie(w, tokenCookie)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			revoked, err := db.IsTokenRevoked(r.Context(), database, claims.ID)
			if err != nil {
				slog.Error("failed to check token revocation", "error", err)
			}
			if err != nil || revoked {
				clearCookie(w, tokenCookie)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), webClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireAdmin answers 403 to users without the admin flag.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := GetWebClaims(r.Context()); claims == nil || !claims.IsAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetWebClaims retrieves the JWT claims from web context.
func GetWebClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(webClaimsKey).(*auth.Claims)
	return claims
}

// clearCookie expires a cookie with consistent attributes.
func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// setFlash stores a one-shot message shown on the next page.
func setFlash(w http.ResponseWriter, ok bool, msg string) {
	kind := "err"
	if ok {
		kind = "ok"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    kind + ":" + url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// popFlash returns and clears the pending flash message.
func popFlash(w http.ResponseWriter, r *http.Request) (success, failure string) {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return "", ""
	}
	clearCookie(w, flashCookie)

	kind, raw, _ := strings.Cut(cookie.Value, ":")
	msg, err := url.QueryUnescape(raw)
	if err != nil {
		return "", ""
	}
	if kind == "ok" {
		return msg, ""
	}
	return "", msg
}

// redirect finishes a form submission: err becomes an error flash, otherwise
// success is flashed.
func redirect(w http.ResponseWriter, r *http.Request, to string, err error, success string) {
	if err != nil {
		msg := errorMessage(err)
		if msg == internalErrorMessage {
			slog.Error("form submission failed", "path", r.URL.Path, "error", err)
		}
		setFlash(w, false, msg)
	} else if success != "" {
		setFlash(w, true, success)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

const internalErrorMessage = "Something went wrong, please try again."

// errorMessage turns an error into a message for the user.
func errorMessage(err error) string {
	var (
		validation  *store.ValidationError
		notFound    *store.NotFoundError
		rented      *store.AlreadyRentedError
		unavailable *store.NotAvailableError
		format      *store.FormatUnavailableError
		upstream    *tmdb.UpstreamUnavailableError
		storage     *docstore.StorageError
	)

	switch {
	case errors.As(err, &validation):
		return validation.Msg
	case errors.Is(err, store.ErrUsernameTaken):
		return "This username is already taken."
	case errors.As(err, &notFound):
		return fmt.Sprintf("That %s does not exist.", notFound.What)
	case errors.As(err, &rented):
		return "You are already renting this film until " + rented.ExpiresAt.UTC().Format("2 Jan 2006 15:04") + "."
	case errors.As(err, &unavailable):
		return "This copy is not offered for rent."
	case errors.As(err, &format):
		return fmt.Sprintf("The owner does not offer this film on %s.", format.Format)
	case errors.As(err, &upstream):
		return "Film information is unavailable right now."
	case errors.Is(err, docstore.ErrConflict), errors.As(err, &storage):
		return "The service is busy, please try again."
	default:
		return internalErrorMessage
	}
}

// fail answers a page request that cannot be rendered.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var storage *docstore.StorageError
	if errors.As(err, &storage) {
		slog.Error("document store unavailable", "path", r.URL.Path, "error", err)
		http.Error(w, "storage is unavailable, try again later", http.StatusServiceUnavailable)
		return
	}
	slog.Error("page failed", "path", r.URL.Path, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
