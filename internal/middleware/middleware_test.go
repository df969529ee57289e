package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hospital-directory/internal/config"
	"hospital-directory/internal/middleware"
	"hospital-directory/internal/models"
	"hospital-directory/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver struct {
	resolveFn func(ctx context.Context, authorization string) (*models.Hospital, error)
}

func (f *fakeResolver) Resolve(ctx context.Context, authorization string) (*models.Hospital, error) {
	return f.resolveFn(ctx, authorization)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireHospital(t *testing.T) {
	resolver := &fakeResolver{resolveFn: func(_ context.Context, authorization string) (*models.Hospital, error) {
		switch authorization {
		case "":
			return nil, service.ErrUnauthenticated
		case "Token good":
			return &models.Hospital{ID: 7, Name: "General"}, nil
		case "Token orphan":
			return nil, service.ErrNotFound
		case "Token broken":
			return nil, errors.New("redis down")
		default:
			return nil, service.ErrInvalidToken
		}
	}}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/me", middleware.RequireHospital(resolver, discardLogger()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": middleware.CurrentHospital(c).ID})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"resolved", "Token good", http.StatusOK, ""},
		{"no header", "", http.StatusUnauthorized, "unauthenticated"},
		{"unknown token", "Token nope", http.StatusUnauthorized, "invalid_token"},
		{"hospital gone", "Token orphan", http.StatusNotFound, "not_found"},
		{"store failure", "Token broken", http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantCode == "" {
				assert.EqualValues(t, 7, body["id"])
				return
			}
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotEmpty(t, body["request_id"])
		})
	}
}

func TestCurrentHospital_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, middleware.CurrentHospital(c))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get("X-Request-Id")
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestCORS_Wildcard(t *testing.T) {
	cfg := &config.Config{}
	cfg.CORS.AllowedOrigins = []string{"*"}

	r := gin.New()
	r.Use(middleware.CORS(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://maps.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://maps.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(middleware.SecurityHeaders())
	r.GET("/api/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/app", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'none'", w.Header().Get("Content-Security-Policy"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(middleware.MaxBodyBytes(8))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("far too long for the limit")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
