package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/dsdaea/aerovault-backend/internal/repository"
	"github.com/dsdaea/aerovault-backend/internal/response"
	"github.com/dsdaea/aerovault-backend/internal/service"
	"github.com/dsdaea/aerovault-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// RecordHandler handles admin management of certificate records.
type RecordHandler struct {
	records *service.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(records *service.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// List godoc
// GET /api/v1/admin/records
func (h *RecordHandler) List(c *gin.Context) {
	eventID, ok := eventIDFilter(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	page, perPage, limit, offset := parsePagination(c)

	records, total, err := h.records.List(c.Request.Context(), eventID, limit, offset)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"records": records},
		buildPagination(page, perPage, total))
}

// Get godoc
// GET /api/v1/admin/records/:id
func (h *RecordHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	rec, err := h.records.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRecordRowNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"record": rec})
}

// Create godoc
// POST /api/v1/admin/records
func (h *RecordHandler) Create(c *gin.Context) {
	var req model.SaveRecordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	rec := recordFromRequest(&req)
	if err := h.records.Create(c.Request.Context(), rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateRollNo) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"record": rec})
}

// Update godoc
// PUT /api/v1/admin/records/:id
func (h *RecordHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SaveRecordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	rec := recordFromRequest(&req)
	rec.ID = id
	if err := h.records.Update(c.Request.Context(), rec); err != nil {
		if errors.Is(err, service.ErrRecordRowNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		if errors.Is(err, repository.ErrDuplicateRollNo) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"record": rec})
}

// Delete godoc
// DELETE /api/v1/admin/records/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.records.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrRecordRowNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Import godoc
// POST /api/v1/admin/records/import
// Accepts a multipart XLSX upload and upserts its rows, optionally bound
// to one event via ?event_id=.
func (h *RecordHandler) Import(c *gin.Context) {
	eventID, ok := eventIDFilter(c)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer file.Close()

	report, err := h.records.ImportXLSX(c.Request.Context(), file, eventID)
	if err != nil {
		if errors.Is(err, service.ErrEmptySheet) {
			response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrValidation, err.Error())
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report": report})
}

func recordFromRequest(req *model.SaveRecordRequest) *model.CertificateRecord {
	return &model.CertificateRecord{
		RollNo:  req.RollNo,
		Name:    req.Name,
		Year:    req.Year,
		Dept:    req.Dept,
		Place:   req.Place,
		EventID: req.EventID,
	}
}
