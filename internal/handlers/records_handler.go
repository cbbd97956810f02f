package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/response"
	"github.com/harentsoaR/hospital-api/internal/services"
)

func (h *Handler) CreatePrescription(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req services.CreatePrescriptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	prescription, err := h.Records.CreatePrescription(c.Request.Context(), req, actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, "Prescription created successfully", prescription)
}

func (h *Handler) UpdatePrescription(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req services.UpdatePrescriptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	prescription, err := h.Records.UpdatePrescription(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "Prescription updated successfully", prescription)
}

func (h *Handler) DeletePrescription(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	if err := h.Records.DeletePrescription(c.Request.Context(), c.Param("id"), actor); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "Prescription deleted successfully", nil)
}

func (h *Handler) GetPrescriptions(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	prescriptions, err := h.Records.ListPrescriptions(c.Request.Context(), actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "", prescriptions)
}

func (h *Handler) CreateMedicalRecord(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req services.CreateMedicalRecordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.Records.CreateMedicalRecord(c.Request.Context(), req, actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, "Medical record created successfully", record)
}

func (h *Handler) UpdateMedicalRecord(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req services.UpdateMedicalRecordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.Records.UpdateMedicalRecord(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "Medical record updated successfully", record)
}

func (h *Handler) DeleteMedicalRecord(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	if err := h.Records.DeleteMedicalRecord(c.Request.Context(), c.Param("id"), actor); err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "Medical record deleted successfully", nil)
}

func (h *Handler) GetMedicalRecords(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	records, err := h.Records.ListMedicalRecords(c.Request.Context(), actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "", records)
}
