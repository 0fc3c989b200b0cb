package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/popcornhub/internal/docstore"
	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/store"
	"github.com/erazemk/popcornhub/internal/tmdb"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

// writeError maps domain and storage errors to HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
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
		jsonError(w, http.StatusBadRequest, validation.Msg)
	case errors.Is(err, store.ErrUsernameTaken):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.As(err, &notFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &rented):
		jsonResponse(w, http.StatusConflict, map[string]any{
			"error":      err.Error(),
			"expires_at": model.NewTimestamp(rented.ExpiresAt),
		})
	case errors.As(err, &unavailable):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.As(err, &format):
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &upstream):
		slog.Warn("metadata provider unavailable", "path", r.URL.Path, "error", err)
		jsonError(w, http.StatusBadGateway, "film metadata is unavailable, try again later")
	case errors.Is(err, docstore.ErrConflict):
		jsonError(w, http.StatusServiceUnavailable, "the data changed meanwhile, try again")
	case errors.As(err, &storage):
		slog.Error("document store unavailable", "path", r.URL.Path, "error", err)
		jsonError(w, http.StatusServiceUnavailable, "storage is unavailable, try again later")
	default:
		slog.Error("request failed", "path", r.URL.Path, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
