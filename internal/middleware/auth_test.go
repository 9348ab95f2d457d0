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
)

const testSecret = "test-secret"

func testContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "user@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	c, _ := testContext(req)

	claims, err := extractClaims(c, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestExtractClaimsFromBearerHeader(t *testing.T) {
	token, err := GenerateToken(7, "admin@example.com", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/playlists", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c, _ := testContext(req)

	claims, err := extractClaims(c, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestExtractClaimsRejectsBadSecret(t *testing.T) {
	token, err := GenerateToken(1, "user@example.com", "user", "other-secret", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	c, _ := testContext(req)

	_, err = extractClaims(c, testSecret)
	assert.Error(t, err)
}

func TestExtractClaimsMissingToken(t *testing.T) {
	c, _ := testContext(httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := extractClaims(c, testSecret)
	assert.Error(t, err)
}

func TestShouldRefresh(t *testing.T) {
	fresh := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	assert.False(t, shouldRefresh(fresh))

	stale := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-45 * time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}
	assert.True(t, shouldRefresh(stale))
}

func TestContextIdentityHelpers(t *testing.T) {
	c, _ := testContext(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Zero(t, GetUserID(c))
	assert.Nil(t, GetUserIDPtr(c))
	assert.Empty(t, GetUserEmail(c))

	setIdentity(c, &Claims{UserID: 9, Email: "u@example.com", Role: "user"})
	assert.Equal(t, 9, GetUserID(c))
	require.NotNil(t, GetUserIDPtr(c))
	assert.Equal(t, 9, *GetUserIDPtr(c))
	assert.Equal(t, "u@example.com", GetUserEmail(c))
}
