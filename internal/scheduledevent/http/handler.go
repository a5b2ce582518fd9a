package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/photonworks/facility-scheduler-backend/internal/auth"
	"github.com/photonworks/facility-scheduler-backend/internal/equipment"
	"github.com/photonworks/facility-scheduler-backend/internal/identity"
	"github.com/photonworks/facility-scheduler-backend/internal/pkg/response"
	"github.com/photonworks/facility-scheduler-backend/internal/scheduledevent"
)

type Handler struct {
	service       scheduledevent.Service
	equipmentRepo equipment.Repository
}

func NewHandler(service scheduledevent.Service, equipmentRepo equipment.Repository) *Handler {
	return &Handler{
		service:       service,
		equipmentRepo: equipmentRepo,
	}
}

func caller(c *gin.Context) (identity.UserContext, bool) {
	user, ok := auth.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return user, ok
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *Handler) Get(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ev, err := h.service.GetByID(c.Request.Context(), user, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if ev == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "scheduled event not found"})
		return
	}

	c.JSON(http.StatusOK, NewScheduledEventResponse(ev))
}

func (h *Handler) List(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	var req ListScheduledEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.service.ListByFilter(c.Request.Context(), user, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewScheduledEventResponses(events)))
}

func (h *Handler) ListByProposalBooking(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req BookingEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.service.ListByProposalBooking(c.Request.Context(), user, bookingID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewScheduledEventResponses(events)))
}

func (h *Handler) GetByProposalBooking(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	ev, err := h.service.GetByProposalBookingAndEventID(c.Request.Context(), user, bookingID, eventID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if ev == nil {
		// Covers absence and denial alike.
		c.JSON(http.StatusNotFound, gin.H{"error": "scheduled event not found"})
		return
	}

	c.JSON(http.StatusOK, NewScheduledEventResponse(ev))
}

func (h *Handler) ListByEquipment(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	var req EquipmentEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	startsAt, err := parseTzLess(req.StartsAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid starts_at"})
		return
	}
	endsAt, err := parseTzLess(req.EndsAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ends_at"})
		return
	}

	events, err := h.service.ListByEquipment(c.Request.Context(), user, req.EquipmentIDs, startsAt, endsAt)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewScheduledEventResponses(events)))
}

func (h *Handler) ListEquipment(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	// Visibility piggybacks on the by-id read path.
	ev, err := h.service.GetByID(c.Request.Context(), user, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if ev == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "scheduled event not found"})
		return
	}

	items, err := h.equipmentRepo.ListForScheduledEvent(c.Request.Context(), ev.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	type equipmentResponse struct {
		ID          int     `json:"id"`
		Name        string  `json:"name"`
		OwnerID     int     `json:"owner_id"`
		AutoAccept  bool    `json:"auto_accept"`
		Status      string  `json:"status"`
		Description *string `json:"description"`
	}

	resp := make([]equipmentResponse, len(items))
	for i, item := range items {
		resp[i] = equipmentResponse{
			ID:          item.ID,
			Name:        item.Name,
			OwnerID:     item.OwnerID,
			AutoAccept:  item.AutoAccept,
			Status:      string(item.Status),
			Description: item.Description,
		}
	}

	c.JSON(http.StatusOK, response.NewListResponse(resp))
}

func (h *Handler) GetEquipmentAssignment(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	equipmentID, ok := pathID(c, "equipmentId")
	if !ok {
		return
	}

	// Visibility piggybacks on the by-id read path.
	ev, err := h.service.GetByID(c.Request.Context(), user, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if ev == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "scheduled event not found"})
		return
	}

	eq, err := h.equipmentRepo.GetByID(c.Request.Context(), equipmentID)
	if err != nil {
		if errors.Is(err, equipment.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "equipment not found"})
			return
		}
		response.Error(c, err)
		return
	}

	status, err := h.equipmentRepo.AssignmentStatus(c.Request.Context(), ev.ID, eq.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if status == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "equipment not assigned to scheduled event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"equipment_id": eq.ID,
		"name":         eq.Name,
		"status":       string(*status),
	})
}

func (h *Handler) Create(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	var body CreateScheduledEventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	startsAt, err := parseTzLess(body.StartsAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid starts_at"})
		return
	}
	endsAt, err := parseTzLess(body.EndsAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ends_at"})
		return
	}

	input := scheduledevent.NewScheduledEventInput{
		BookingType:       scheduledevent.BookingType(body.BookingType),
		StartsAt:          startsAt,
		EndsAt:            endsAt,
		ScheduledByID:     user.UserID,
		ProposalBookingID: body.ProposalBookingID,
		InstrumentID:      body.InstrumentID,
		Description:       body.Description,
	}

	ev, err := h.service.Create(c.Request.Context(), user, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewScheduledEventResponse(ev))
}

func (h *Handler) Delete(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), user, id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
