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

// RegistrationHandler handles event sign-ups.
type RegistrationHandler struct {
	regs *service.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(regs *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{regs: regs}
}

// Register godoc
// POST /api/v1/registrations
// Classifies the roll code, stores the sign-up, and queues the external
// form delivery. The classification rides back so the page can confirm
// what was derived.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	reg, cls, err := h.regs.Register(c.Request.Context(), req.RollNo, req.Name, req.EventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrEventNotFound)
		case errors.Is(err, service.ErrRegistrationClosed):
			response.Fail(c, http.StatusConflict, response.ErrRegistrationClosed)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"registration":   reg,
		"classification": cls,
	})
}

// List godoc
// GET /api/v1/admin/registrations
func (h *RegistrationHandler) List(c *gin.Context) {
	eventID, ok := eventIDFilter(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	page, perPage, limit, offset := parsePagination(c)

	regs, total, err := h.regs.ListRegistrations(c.Request.Context(), eventID, limit, offset)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"registrations": regs},
		buildPagination(page, perPage, total))
}
