package handler

import (
	"errors"
	"net/http"

	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/dsdaea/aerovault-backend/internal/response"
	"github.com/dsdaea/aerovault-backend/internal/service"
	"github.com/dsdaea/aerovault-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// EventHandler serves the public event catalogue and admin event CRUD.
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// List godoc
// GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"events": events})
}

// Get godoc
// GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	event, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrEventNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"event": event})
}

// Create godoc
// POST /api/v1/admin/events
func (h *EventHandler) Create(c *gin.Context) {
	var req model.CreateEventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	event := &model.Event{
		Title:               req.Title,
		Type:                req.Type,
		Status:              req.Status,
		Tagline:             req.Tagline,
		Details:             req.Details,
		Venue:               req.Venue,
		EventDate:           req.EventDate,
		RegistrationEnabled: req.RegistrationEnabled,
		Capacity:            req.Capacity,
		CertificateTitle:    req.CertificateTitle,
	}

	if err := h.events.Create(c.Request.Context(), event); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"event": event})
}

// Update godoc
// PUT /api/v1/admin/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateEventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	event, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrEventNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	applyEventUpdate(event, &req)

	if err := h.events.Update(c.Request.Context(), event); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"event": event})
}

// Delete godoc
// DELETE /api/v1/admin/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrEventNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

func applyEventUpdate(event *model.Event, req *model.UpdateEventRequest) {
	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Type != "" {
		event.Type = req.Type
	}
	if req.Status != "" {
		event.Status = req.Status
	}
	if req.Tagline != "" {
		event.Tagline = req.Tagline
	}
	if req.Details != "" {
		event.Details = req.Details
	}
	if req.Venue != "" {
		event.Venue = req.Venue
	}
	if req.EventDate != nil {
		event.EventDate = req.EventDate
	}
	if req.RegistrationEnabled != nil {
		event.RegistrationEnabled = *req.RegistrationEnabled
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}
	if req.CertificateTitle != "" {
		event.CertificateTitle = req.CertificateTitle
	}
}
