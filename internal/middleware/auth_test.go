package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/services"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

const testSecret = "test-secret"

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Token validation fails before the resolver is ever consulted, so a
	// resolver without a database is fine for these paths.
	r.Use(Auth(testSecret, services.NewIdentityResolver(nil)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func doRequest(r *gin.Engine, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingToken(t *testing.T) {
	w := doRequest(setupRouter(), nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Authentication required", body["error"])
}

func TestAuthMalformedBearerToken(t *testing.T) {
	w := doRequest(setupRouter(), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer garbage")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid token", body["error"])
}

func TestAuthCookieTakesPrecedenceOverHeader(t *testing.T) {
	actor := &models.AuthActor{
		ID:   primitive.NewObjectID(),
		Kind: models.KindDoctor,
	}
	validToken, err := utils.GenerateToken(actor, testSecret)
	require.NoError(t, err)

	// A garbage cookie must shadow a well-formed bearer token.
	w := doRequest(setupRouter(), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+validToken)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "garbage"})
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid token", body["error"])
}

func TestAuthExpiredToken(t *testing.T) {
	claims := &utils.Claims{
		UserID: primitive.NewObjectID().Hex(),
		Role:   "doctor",
		Model:  "Doctor",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := doRequest(setupRouter(), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: expired})
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Token has expired", body["error"])
}
