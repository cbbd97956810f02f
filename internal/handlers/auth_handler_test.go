package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/hospital-api/internal/config"
	"github.com/harentsoaR/hospital-api/internal/models"
)

type superAdminStoreMock struct {
	count  func(ctx context.Context) (int64, error)
	insert func(ctx context.Context, admin models.SuperAdmin) error
}

func (m *superAdminStoreMock) Count(ctx context.Context) (int64, error) {
	if m.count == nil {
		return 0, nil
	}
	return m.count(ctx)
}

func (m *superAdminStoreMock) Insert(ctx context.Context, admin models.SuperAdmin) error {
	if m.insert == nil {
		return nil
	}
	return m.insert(ctx, admin)
}

func registerRouter(store superAdminStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{Cfg: &config.Config{AppMode: "dev"}, Log: zerolog.Nop(), superAdmins: store}
	r := gin.New()
	r.POST("/auth/superadmin/register", h.RegisterSuperAdmin)
	return r
}

func postRegistration(r *gin.Engine) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{
		"name":     "Root",
		"email":    "root@example.com",
		"password": "longenough1",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/superadmin/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterSuperAdminBootstrap(t *testing.T) {
	var stored *models.SuperAdmin
	r := registerRouter(&superAdminStoreMock{
		insert: func(_ context.Context, admin models.SuperAdmin) error {
			stored = &admin
			return nil
		},
	})

	w := postRegistration(r)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, stored)
	assert.Equal(t, models.StatusActive, stored.Status)
	assert.Equal(t, models.SuperAdminSingleton, stored.Singleton)
	assert.NotEqual(t, "longenough1", stored.Password, "stored credential must be hashed")
}

func TestRegisterSuperAdminOnlyOne(t *testing.T) {
	r := registerRouter(&superAdminStoreMock{
		count: func(context.Context) (int64, error) { return 1, nil },
		insert: func(context.Context, models.SuperAdmin) error {
			t.Fatal("a second registration must never reach the insert")
			return nil
		},
	})

	w := postRegistration(r)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Only one SuperAdmin allowed", body["error"])
}

func TestRegisterSuperAdminLosesBootstrapRace(t *testing.T) {
	// Both concurrent calls saw an empty collection; the unique singleton
	// index rejects whichever insert arrives second.
	r := registerRouter(&superAdminStoreMock{
		insert: func(context.Context, models.SuperAdmin) error {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		},
	})

	w := postRegistration(r)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Only one SuperAdmin allowed", body["error"])
}
