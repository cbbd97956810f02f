package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/response"
	"github.com/harentsoaR/hospital-api/internal/services"
)

// GetSettings returns the singleton settings record, creating it with
// defaults on first read.
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.Settings.Get(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "", settings)
}

// UpdateSettings is admin-side only.
func (h *Handler) UpdateSettings(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req services.UpdateSettingsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	settings, err := h.Settings.Update(c.Request.Context(), req, actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, "Settings updated successfully", settings)
}
