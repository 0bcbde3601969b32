package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parking_ops/internal/api/middleware"
	"parking_ops/internal/domain"
	"parking_ops/internal/service"
)

// AdminHandler covers the control-plane mutations: category rates, zone
// open/close, tariff calendar entries and the ticket report.
type AdminHandler struct {
	parkingService *service.ParkingService
}

func NewAdminHandler(parkingService *service.ParkingService) *AdminHandler {
	return &AdminHandler{parkingService: parkingService}
}

func actorID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	var dto domain.UpdateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.parkingService.UpdateCategory(c.Request.Context(), c.Param("id"), dto, actorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *AdminHandler) SetZoneOpen(c *gin.Context) {
	var dto domain.SetZoneOpenDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	zone, err := h.parkingService.SetZoneOpen(c.Request.Context(), c.Param("id"), *dto.Open, actorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, zone)
}

func (h *AdminHandler) CreateRushWindow(c *gin.Context) {
	var dto domain.CreateRushWindowDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	window, err := h.parkingService.AddRushWindow(c.Request.Context(), dto, actorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, window)
}

func (h *AdminHandler) DeleteRushWindow(c *gin.Context) {
	if err := h.parkingService.RemoveRushWindow(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) CreateVacation(c *gin.Context) {
	var dto domain.CreateVacationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	vacation, err := h.parkingService.AddVacation(c.Request.Context(), dto, actorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vacation)
}

func (h *AdminHandler) DeleteVacation(c *gin.Context) {
	if err := h.parkingService.RemoveVacation(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FindTickets is the admin report: filter by status (open/closed) and zone.
func (h *AdminHandler) FindTickets(c *gin.Context) {
	var filter domain.TicketFilterDTO
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if filter.Status != "" && filter.Status != "open" && filter.Status != "closed" {
		respondError(c, http.StatusBadRequest, "status must be open or closed")
		return
	}

	tickets, err := h.parkingService.FindTickets(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}
