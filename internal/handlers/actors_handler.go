package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/response"
	"github.com/harentsoaR/hospital-api/internal/services"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

type CreateActorRequest struct {
	Name           string   `json:"name" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=8"`
	Permissions    []string `json:"permissions"`
	Specialization string   `json:"specialization"`
	Phone          string   `json:"phone"`
	Age            int      `json:"age"`
	Gender         string   `json:"gender"`
}

// CreateAdmin is SuperAdmin-only.
func (h *Handler) CreateAdmin(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := h.Gate.Require(actor, "superadmin"); err != nil {
		h.fail(c, err)
		return
	}

	var req CreateActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.fail(c, apperr.Internal("failed to hash password", err))
		return
	}

	now := time.Now()
	admin := models.Admin{
		ID:             primitive.NewObjectID(),
		Name:           req.Name,
		Email:          req.Email,
		Password:       hashed,
		Status:         models.StatusActive,
		Permissions:    models.PermissionSet(req.Permissions),
		CreatedBy:      actor.ID,
		CreatedByModel: string(actor.Kind),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.insertActor(c, models.KindAdmin, admin); err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, "Admin created successfully", admin)
}

// CreateDoctor is admin-side only.
func (h *Handler) CreateDoctor(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := h.Gate.Require(actor, "admin"); err != nil {
		h.fail(c, err)
		return
	}

	var req CreateActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.fail(c, apperr.Internal("failed to hash password", err))
		return
	}

	permissions := models.PermissionSet(req.Permissions)
	if len(permissions) == 0 {
		permissions = models.PermissionSet{
			models.CapAppointmentsCreate,
			models.CapAppointmentsView,
			models.CapViewPatients,
			models.CapMedicalRecordsView,
		}
	}

	now := time.Now()
	doctor := models.Doctor{
		ID:             primitive.NewObjectID(),
		Name:           req.Name,
		Email:          req.Email,
		Password:       hashed,
		Specialization: req.Specialization,
		Phone:          req.Phone,
		Status:         models.StatusActive,
		Permissions:    permissions,
		CreatedBy:      actor.ID,
		CreatedByModel: string(actor.Kind),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.insertActor(c, models.KindDoctor, doctor); err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, "Doctor created successfully", doctor)
}

// CreatePatient may be done by doctors as well as admin-side actors.
func (h *Handler) CreatePatient(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := h.Gate.RequireAny(actor, []models.ActorKind{models.KindDoctor, models.KindAdmin}, "admin"); err != nil {
		h.fail(c, err)
		return
	}

	var req CreateActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.fail(c, apperr.Internal("failed to hash password", err))
		return
	}

	now := time.Now()
	patient := models.Patient{
		ID:             primitive.NewObjectID(),
		Name:           req.Name,
		Email:          req.Email,
		Password:       hashed,
		Age:            req.Age,
		Gender:         req.Gender,
		Phone:          req.Phone,
		Status:         models.StatusActive,
		Permissions:    models.PermissionSet(req.Permissions),
		CreatedBy:      actor.ID,
		CreatedByModel: string(actor.Kind),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.insertActor(c, models.KindPatient, patient); err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, "Patient created successfully", patient)
}

func (h *Handler) insertActor(c *gin.Context, kind models.ActorKind, doc interface{}) error {
	_, err := h.DB.Collection(kind.Collection()).InsertOne(c.Request.Context(), doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("An account with this email already exists")
		}
		return apperr.Internal("failed to create "+kind.Role(), err)
	}
	return nil
}

// ListDoctors requires the view_doctors capability or a privileged role.
func (h *Handler) ListDoctors(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := h.Gate.RequireAny(actor, []models.ActorKind{models.KindAdmin}, models.CapViewDoctors); err != nil {
		h.fail(c, err)
		return
	}
	h.listActors(c, models.KindDoctor)
}

// ListPatients requires the view_patients capability or a privileged role;
// doctors pass by kind.
func (h *Handler) ListPatients(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := h.Gate.RequireAny(actor, []models.ActorKind{models.KindAdmin, models.KindDoctor}, models.CapViewPatients); err != nil {
		h.fail(c, err)
		return
	}
	h.listActors(c, models.KindPatient)
}

func (h *Handler) listActors(c *gin.Context, kind models.ActorKind) {
	findOptions := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := h.DB.Collection(kind.Collection()).Find(c.Request.Context(), bson.M{}, findOptions)
	if err != nil {
		h.fail(c, apperr.Internal("failed to list "+kind.Collection(), err))
		return
	}
	defer cursor.Close(c.Request.Context())

	results := make([]bson.M, 0)
	if err := cursor.All(c.Request.Context(), &results); err != nil {
		h.fail(c, apperr.Internal("failed to decode "+kind.Collection(), err))
		return
	}
	response.OK(c, "", results)
}

type UpdateStatusRequest struct {
	Status models.ActorStatus `json:"status" binding:"required"`
}

// UpdateActorStatus changes an admin's, doctor's or patient's status. Setting
// it away from active makes every later authorization check for that actor
// fail on its next request, even while its token is unexpired.
func (h *Handler) UpdateActorStatus(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	kind, ok := kindFromRole(c.Param("role"))
	if !ok || kind == models.KindSuperAdmin {
		response.Error(c, http.StatusBadRequest, "Invalid role")
		return
	}
	// Admin records may only be managed by the SuperAdmin.
	requiredRole := "admin"
	if kind == models.KindAdmin {
		requiredRole = "superadmin"
	}
	if err := h.Gate.Require(actor, requiredRole); err != nil {
		h.fail(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	switch req.Status {
	case models.StatusActive, models.StatusInactive, models.StatusOnLeave:
	default:
		response.Error(c, http.StatusBadRequest, "Invalid status")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid ID")
		return
	}

	set := services.UpdateStamps(actor, time.Now())
	set["status"] = req.Status
	result, err := h.DB.Collection(kind.Collection()).UpdateOne(c.Request.Context(), bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		h.fail(c, apperr.Internal("failed to update status", err))
		return
	}
	if result.MatchedCount == 0 {
		h.fail(c, apperr.NotFound(string(kind)+" not found"))
		return
	}
	response.OK(c, "Status updated successfully", gin.H{"status": req.Status})
}

// DeleteDoctor hard-deletes the doctor record. Historical appointments and
// prescriptions are left untouched; reads degrade with fallback doctor fields.
func (h *Handler) DeleteDoctor(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := h.Gate.Require(actor, models.CapDeleteDoctors); err != nil {
		h.fail(c, err)
		return
	}
	h.hardDeleteActor(c, models.KindDoctor)
}

// DeletePatient hard-deletes per the policy table: patient records are always
// hard-deleted, never soft-deleted.
func (h *Handler) DeletePatient(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := h.Gate.Require(actor, models.CapDeletePatients); err != nil {
		h.fail(c, err)
		return
	}
	if services.DeletionPolicyFor(services.EntityPatient, actor.Kind) != services.DeleteHard {
		h.fail(c, apperr.Authorization("Permission denied"))
		return
	}
	h.hardDeleteActor(c, models.KindPatient)
}

func (h *Handler) hardDeleteActor(c *gin.Context, kind models.ActorKind) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid ID")
		return
	}

	result, err := h.DB.Collection(kind.Collection()).DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		h.fail(c, apperr.Internal("failed to delete "+kind.Role(), err))
		return
	}
	if result.DeletedCount == 0 {
		h.fail(c, apperr.NotFound(string(kind)+" not found"))
		return
	}
	response.OK(c, string(kind)+" deleted successfully", nil)
}

// GetProfile returns the caller's own resolved record.
func (h *Handler) GetProfile(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var doc bson.M
	err := h.DB.Collection(actor.Kind.Collection()).FindOne(
		c.Request.Context(),
		bson.M{"_id": actor.ID},
		options.FindOne().SetProjection(bson.M{"password": 0}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.fail(c, apperr.NotFound(string(actor.Kind)+" not found"))
			return
		}
		h.fail(c, apperr.Internal("failed to load profile", err))
		return
	}
	response.OK(c, "", doc)
}
