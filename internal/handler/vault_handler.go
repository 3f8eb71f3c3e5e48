package handler

import (
	"errors"
	"net/http"

	"github.com/dsdaea/aerovault-backend/internal/certificate"
	"github.com/dsdaea/aerovault-backend/internal/response"
	"github.com/dsdaea/aerovault-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// VaultHandler handles public certificate vault endpoints.
type VaultHandler struct {
	certs *service.CertificateService
}

// NewVaultHandler creates a new VaultHandler.
func NewVaultHandler(certs *service.CertificateService) *VaultHandler {
	return &VaultHandler{certs: certs}
}

// Lookup godoc
// GET /api/v1/vault/:roll_no
// Resolves a certificate record and classifies the roll number.
func (h *VaultHandler) Lookup(c *gin.Context) {
	result, err := h.certs.Lookup(c.Request.Context(), c.Param("roll_no"))
	if err != nil {
		failLookup(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Export godoc
// POST /api/v1/vault/:roll_no/export?format=jpeg|pdf&wait=true
// With wait=true the artifact streams back inline; otherwise the job is
// queued and its ID returned for polling or WebSocket streaming.
func (h *VaultHandler) Export(c *gin.Context) {
	format, err := certificate.ParseFormat(c.Query("format"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFormat)
		return
	}

	var eventID *int
	if raw := c.Query("event_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		eventID = &id
	}

	rollNo := c.Param("roll_no")

	if c.Query("wait") == "true" {
		artifact, err := h.certs.ExportSync(c.Request.Context(), rollNo, eventID, format)
		if err != nil {
			failExport(c, err)
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
		c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
		return
	}

	job, err := h.certs.EnqueueExport(c.Request.Context(), rollNo, eventID, format)
	if err != nil {
		failExport(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"job": job})
}

// JobStatus godoc
// GET /api/v1/vault/exports/:job_id
func (h *VaultHandler) JobStatus(c *gin.Context) {
	job, err := h.certs.JobStatus(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"job": job})
}

// Download godoc
// GET /api/v1/vault/exports/:job_id/download
// Streams the stored artifact once the job reaches the saved stage.
func (h *VaultHandler) Download(c *gin.Context) {
	job, err := h.certs.Artifact(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrJobNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrJobNotReady):
			response.Fail(c, http.StatusConflict, response.ErrExportNotReady)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	c.FileAttachment(job.FilePath, job.Filename)
}

// failLookup maps lookup errors onto the response taxonomy.
func failLookup(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecordNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrRecordNotFound)
	case errors.Is(err, service.ErrRecordInvalid):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrRecordInvalid)
	case errors.Is(err, service.ErrLookupUnavailable):
		response.Fail(c, http.StatusBadGateway, response.ErrLookupUnavailable)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func failExport(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportBusy):
		response.Fail(c, http.StatusConflict, response.ErrExportBusy)
	case errors.Is(err, service.ErrRecordNotFound),
		errors.Is(err, service.ErrRecordInvalid),
		errors.Is(err, service.ErrLookupUnavailable):
		failLookup(c, err)
	case errors.Is(err, certificate.ErrNoRecord):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrRecordInvalid)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrExportFailed)
	}
}
