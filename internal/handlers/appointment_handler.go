package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/response"
	"github.com/harentsoaR/hospital-api/internal/services"
)

// CreateAppointment books a slot for a doctor and patient.
func (h *Handler) CreateAppointment(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req services.CreateAppointmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.Scheduler.Create(c.Request.Context(), req, actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, "Appointment created successfully", view)
}

// GetAppointments lists bookings scoped to the caller's kind, with optional
// status, date range and (for admin-side callers) doctor/patient filters.
func (h *Handler) GetAppointments(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	q := services.ListAppointmentsQuery{
		DoctorID:       c.Query("doctorId"),
		PatientID:      c.Query("patientId"),
		Status:         c.Query("status"),
		FromDate:       c.Query("startDate"),
		ToDate:         c.Query("endDate"),
		IncludeDeleted: c.Query("includeDeleted") == "true",
	}

	appointments, err := h.Scheduler.List(c.Request.Context(), q, actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "", appointments)
}

// GetAppointment returns one booking as a denormalized view.
func (h *Handler) GetAppointment(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	view, err := h.Scheduler.Get(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "", view)
}

type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required"`
}

// UpdateAppointmentStatus transitions a booking's lifecycle state.
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	apt, err := h.Scheduler.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "Appointment status updated successfully", apt)
}

// DeleteAppointment applies the per-actor-kind deletion policy.
func (h *Handler) DeleteAppointment(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	if err := h.Scheduler.Delete(c.Request.Context(), c.Param("id"), actor); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "Appointment deleted successfully", nil)
}
