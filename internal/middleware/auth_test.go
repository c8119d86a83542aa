package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomkart/bloomkart-orders-service/internal/config"
)

const testSecret = "unit-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func authedRouter() *gin.Engine {
	cfg := config.AuthConfig{JWTSecret: testSecret, CookieName: "token"}
	r := gin.New()
	r.GET("/whoami", RequireAuth(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"buyer_id": c.GetString(ContextBuyerIDKey)})
	})
	r.GET("/admin", RequireAuth(cfg), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func signToken(t *testing.T, secret, userID, role string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestRequireAuthBearerHeader(t *testing.T) {
	r := authedRouter()
	token := signToken(t, testSecret, "buyer-1", "user", time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"buyer_id":"buyer-1"`)
}

func TestRequireAuthSessionCookie(t *testing.T) {
	r := authedRouter()
	token := signToken(t, testSecret, "buyer-2", "user", time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"buyer_id":"buyer-2"`)
}

func TestRequireAuthRejections(t *testing.T) {
	r := authedRouter()

	cases := map[string]func(req *http.Request){
		"missing token": func(*http.Request) {},
		"expired token": func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+
				signToken(t, testSecret, "buyer-1", "user", time.Now().Add(-time.Hour)))
		},
		"wrong secret": func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+
				signToken(t, "another-secret", "buyer-1", "user", time.Now().Add(time.Hour)))
		},
		"no user id": func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+
				signToken(t, testSecret, "", "user", time.Now().Add(time.Hour)))
		},
		"garbage token": func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer not.a.jwt")
		},
	}

	for name, prepare := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			prepare(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	r := authedRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+
		signToken(t, testSecret, "admin-1", RoleAdmin, time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+
		signToken(t, testSecret, "buyer-1", "user", time.Now().Add(time.Hour)))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
