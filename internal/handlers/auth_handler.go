package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/response"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

type RegisterSuperAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegisterSuperAdmin bootstraps the single system-wide SuperAdmin. Every
// other actor is created by a privileged creator, never self-registered.
func (h *Handler) RegisterSuperAdmin(c *gin.Context) {
	var req RegisterSuperAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.superAdmins.Count(c.Request.Context())
	if err != nil {
		h.fail(c, apperr.Internal("failed to count superadmins", err))
		return
	}
	if count > 0 {
		h.fail(c, apperr.Authorization("Only one SuperAdmin allowed"))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.fail(c, apperr.Internal("failed to hash password", err))
		return
	}

	now := time.Now()
	admin := models.SuperAdmin{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Email:       req.Email,
		Password:    hashed,
		Status:      models.StatusActive,
		Permissions: models.PermissionSet{},
		Singleton:   models.SuperAdminSingleton,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.superAdmins.Insert(c.Request.Context(), admin); err != nil {
		// The count read races with concurrent bootstrap calls; the unique
		// singleton index catches whichever insert loses.
		if mongo.IsDuplicateKeyError(err) {
			h.fail(c, apperr.Authorization("Only one SuperAdmin allowed"))
			return
		}
		h.fail(c, apperr.Internal("failed to create superadmin", err))
		return
	}

	response.Created(c, "SuperAdmin registered successfully", admin)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// loginDoc reads the credential fields the common actorDoc deliberately omits.
type loginDoc struct {
	ID          primitive.ObjectID   `bson:"_id"`
	Name        string               `bson:"name"`
	Email       string               `bson:"email"`
	Password    string               `bson:"password"`
	Status      models.ActorStatus   `bson:"status"`
	Permissions models.PermissionSet `bson:"permissions"`
}

// Login authenticates against the collection implied by the requested role,
// or each collection in turn when no role is given. On success it issues the
// 7-day session token both as an httpOnly cookie and in the envelope.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	kinds := []models.ActorKind{models.KindSuperAdmin, models.KindAdmin, models.KindDoctor, models.KindPatient}
	if req.Role != "" {
		kind, ok := kindFromRole(req.Role)
		if !ok {
			response.Error(c, http.StatusBadRequest, "Invalid role")
			return
		}
		kinds = []models.ActorKind{kind}
	}

	var doc loginDoc
	var kind models.ActorKind
	found := false
	for _, k := range kinds {
		err := h.DB.Collection(k.Collection()).FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&doc)
		if err == nil {
			kind = k
			found = true
			break
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			h.fail(c, apperr.Internal("failed to look up account", err))
			return
		}
	}
	if !found || !utils.CheckPasswordHash(req.Password, doc.Password) {
		h.fail(c, apperr.Authentication("Invalid credentials"))
		return
	}
	if doc.Status != models.StatusActive {
		h.fail(c, apperr.Authorization(string(kind)+" not found or inactive"))
		return
	}

	actor := &models.AuthActor{
		ID:          doc.ID,
		Name:        doc.Name,
		Email:       doc.Email,
		Kind:        kind,
		Status:      doc.Status,
		Permissions: doc.Permissions,
	}
	token, err := utils.GenerateToken(actor, h.Cfg.JWTSecret)
	if err != nil {
		h.fail(c, apperr.Internal("failed to generate token", err))
		return
	}

	c.SetCookie(middleware.TokenCookie, token, int(utils.TokenTTL.Seconds()), "/", h.Cfg.CookieDomain, h.Cfg.CookieSecure, true)
	response.OK(c, "Login successful", gin.H{"token": token, "user": actor})
}

// Logout clears the session cookie. The token itself stays valid until
// natural expiry; there is no revocation list.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", h.Cfg.CookieDomain, h.Cfg.CookieSecure, true)
	response.OK(c, "Logged out", nil)
}

func kindFromRole(role string) (models.ActorKind, bool) {
	switch role {
	case "superadmin":
		return models.KindSuperAdmin, true
	case "admin":
		return models.KindAdmin, true
	case "doctor":
		return models.KindDoctor, true
	case "patient":
		return models.KindPatient, true
	}
	return "", false
}
