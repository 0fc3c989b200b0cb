package docstore

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// MaxDocumentSize bounds PUT /data bodies.
const MaxDocumentSize = "32M"

// Server exposes a Backend over HTTP.
type Server struct {
	Backend Backend
}

// NewServer returns the data service handler: GET/PUT /data and GET /health.
func NewServer(b Backend) *echo.Echo {
	s := &Server{Backend: b}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"duration", v.Latency.Round(time.Millisecond),
				"remote", v.RemoteIP,
			}
			if v.Error != nil {
				slog.Error("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.BodyLimit(MaxDocumentSize))

	e.GET("/data", s.GetData)
	e.PUT("/data", s.PutData)
	e.GET("/health", s.Health)
	return e
}

// GetData handles GET /data.
func (s *Server) GetData(c echo.Context) error {
	body, version, err := s.Backend.Read(c.Request().Context())
	if err != nil {
		slog.Error("failed to read document", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read document"})
	}
	if body == nil {
		body = []byte(emptyDocument)
	}

	c.Response().Header().Set("ETag", formatETag(version))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
}

// PutData handles PUT /data.
func (s *Server) PutData(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to read body"})
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil || root == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "document must be a JSON object"})
	}

	expected := int64(-1)
	if match := c.Request().Header.Get("If-Match"); match != "" {
		v, ok := parseETag(match)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid If-Match header"})
		}
		expected = v
	}

	version, err := s.Backend.Write(c.Request().Context(), body, expected)
	if errors.Is(err, ErrConflict) {
		slog.Warn("rejected stale document write", "expected", expected)
		return c.JSON(http.StatusPreconditionFailed, map[string]string{"error": ErrConflict.Error()})
	}
	if err != nil {
		slog.Error("failed to write document", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to write document"})
	}

	c.Response().Header().Set("ETag", formatETag(version))
	return c.NoContent(http.StatusNoContent)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

const emptyDocument = `{"users":[],"user_owns":[],"rentals":[],"reviews":[],"favorites":{},"library":{},"catalog":[],"deleted_films":[],"film_overrides":{}}`

func formatETag(version int64) string {
	return `"` + strconv.FormatInt(version, 10) + `"`
}

func parseETag(s string) (int64, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "W/")
	v, err := strconv.ParseInt(strings.Trim(s, `"`), 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
