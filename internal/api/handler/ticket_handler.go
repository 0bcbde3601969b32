package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parking_ops/internal/domain"
	"parking_ops/internal/service"
)

type TicketHandler struct {
	parkingService *service.ParkingService
}

func NewTicketHandler(parkingService *service.ParkingService) *TicketHandler {
	return &TicketHandler{parkingService: parkingService}
}

// CheckIn admits a vehicle at a gate. On success the response carries the
// open ticket plus the updated zone state the gate screen should show.
func (h *TicketHandler) CheckIn(c *gin.Context) {
	var dto domain.CheckInDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if dto.Type == domain.TicketSubscriber && dto.SubscriptionID == "" {
		respondError(c, http.StatusBadRequest, "subscriptionId is required for subscriber check-in")
		return
	}

	ticket, state, err := h.parkingService.CheckIn(c.Request.Context(), dto)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ticket": ticket, "zoneState": state})
}

// checkoutResponse flattens the bill fields alongside the refreshed zone
// state, which is what the checkpoint screen renders.
type checkoutResponse struct {
	*domain.Bill
	ZoneState *domain.ZoneState `json:"zoneState"`
}

// CheckOut closes a ticket and returns the itemized bill.
func (h *TicketHandler) CheckOut(c *gin.Context) {
	var dto domain.CheckOutDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	bill, state, err := h.parkingService.Checkout(c.Request.Context(), dto)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{Bill: bill, ZoneState: state})
}

func (h *TicketHandler) GetTicketByID(c *gin.Context) {
	ticket, err := h.parkingService.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}
