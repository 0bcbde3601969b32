package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parking_ops/internal/service"
)

// MasterHandler serves the read-only master data the gate and checkpoint
// screens bootstrap from.
type MasterHandler struct {
	parkingService *service.ParkingService
}

func NewMasterHandler(parkingService *service.ParkingService) *MasterHandler {
	return &MasterHandler{parkingService: parkingService}
}

// GetZones returns the derived state of every zone a gate exposes.
func (h *MasterHandler) GetZones(c *gin.Context) {
	gateID := c.Query("gateId")
	if gateID == "" {
		respondError(c, http.StatusBadRequest, "gateId query parameter is required")
		return
	}

	states, err := h.parkingService.ZoneStatesForGate(c.Request.Context(), gateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, states)
}

func (h *MasterHandler) GetGates(c *gin.Context) {
	gates, err := h.parkingService.ListGates(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gates)
}

func (h *MasterHandler) GetSubscriptionByID(c *gin.Context) {
	sub, err := h.parkingService.GetSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
