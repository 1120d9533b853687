package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func newAuthRouter(tokens *auth.Manager, adminEmail string, legacy bool) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":   c.MustGet(string(domain.KeyUserID)),
			"role": c.GetString(string(domain.KeyUserRole)),
		})
	})
	r.GET("/admin", AuthMiddleware(tokens), RequireAdmin(adminEmail, legacy), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doGet(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	r := newAuthRouter(tokens, "admin@jobportal.com", false)

	t.Run("Missing token is 401", func(t *testing.T) {
		w := doGet(r, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Access denied", errorOf(t, w))
	})

	t.Run("Wrong scheme counts as missing", func(t *testing.T) {
		w := doGet(r, "/me", "Basic dXNlcjpwdw==")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Garbage token is 403", func(t *testing.T) {
		w := doGet(r, "/me", "Bearer not.a.token")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Invalid token", errorOf(t, w))
	})

	t.Run("Token signed with another secret is 403", func(t *testing.T) {
		other, err := auth.NewManager("other-secret", time.Hour).Issue(1, "a@x.com", "A", domain.RoleUser)
		require.NoError(t, err)
		w := doGet(r, "/me", "Bearer "+other)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Valid token exposes claims", func(t *testing.T) {
		token, err := tokens.Issue(42, "a@x.com", "A", domain.RoleUser)
		require.NoError(t, err)

		w := doGet(r, "/me", "Bearer "+token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":42,"role":"user"}`, w.Body.String())
	})
}

func TestRequireAdmin(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	userToken, _ := tokens.Issue(1, "admin@jobportal.com", "Legacy", domain.RoleUser)
	adminToken, _ := tokens.Issue(2, "boss@jobportal.com", "Boss", domain.RoleAdmin)

	t.Run("Role admin passes", func(t *testing.T) {
		r := newAuthRouter(tokens, "admin@jobportal.com", false)
		assert.Equal(t, http.StatusNoContent, doGet(r, "/admin", "Bearer "+adminToken).Code)
	})

	t.Run("Admin email without role is rejected by default", func(t *testing.T) {
		r := newAuthRouter(tokens, "admin@jobportal.com", false)
		w := doGet(r, "/admin", "Bearer "+userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Admin access required", errorOf(t, w))
	})

	t.Run("Admin email accepted with legacy check", func(t *testing.T) {
		r := newAuthRouter(tokens, "admin@jobportal.com", true)
		assert.Equal(t, http.StatusNoContent, doGet(r, "/admin", "Bearer "+userToken).Code)
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/conflict", func(c *gin.Context) { _ = c.Error(apperror.Conflict("User already exists")) })
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(domain.ErrNotFound) })
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(assert.AnError) })

	w := doGet(r, "/conflict", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exists", errorOf(t, w))

	w = doGet(r, "/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doGet(r, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", errorOf(t, w))
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	_, err := uuid.Parse(body["request_id"].(string))
	assert.NoError(t, err)
}

func TestRequestID_ReusesValidHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(string(domain.KeyRequestID))) })

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(requestIDHeader))
}

func TestRateLimitMiddleware_InMemory(t *testing.T) {
	cfg := RateLimitConfig{
		Limit:     2,
		Window:    time.Minute,
		KeyPrefix: "rl:test:" + uuid.NewString() + ":",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}

	r := gin.New()
	r.Use(RateLimitMiddleware(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doGet(r, "/", "").Code)
	w := doGet(r, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = doGet(r, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/api/jobs", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doGet(r, "/api/jobs", "Bearer x")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestCORSMiddleware(t *testing.T) {
	preflight := func(r http.Handler, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/jobs", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
	newRouter := func(origins ...string) *gin.Engine {
		r := gin.New()
		r.Use(CORSMiddleware(origins))
		r.POST("/api/jobs", func(c *gin.Context) { c.Status(http.StatusCreated) })
		return r
	}

	t.Run("Configured origin gets credentials", func(t *testing.T) {
		w := preflight(newRouter("http://localhost:3000"), "http://localhost:3000")
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("Other origins are refused", func(t *testing.T) {
		w := preflight(newRouter("http://localhost:3000"), "http://evil.test")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Wildcard never reflects the origin with credentials", func(t *testing.T) {
		w := preflight(newRouter("*"), "http://evil.test")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})
}
