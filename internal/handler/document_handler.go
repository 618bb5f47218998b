package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dociq/internal/domain"
	"dociq/internal/service"
)

// DocumentHandler handles document extraction endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
	maxUploadBytes  int64
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService, maxUploadMB int64) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxUploadBytes:  maxUploadMB * 1024 * 1024,
	}
}

// Upload handles POST /api/v1/documents/upload. It accepts a multipart
// form with a "file" part and a "document_type" field, queues an
// extraction job, and returns it.
func (h *DocumentHandler) Upload(c *gin.Context) {
	docType := c.PostForm("document_type")
	if docType == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "document_type is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required")
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read uploaded file")
		return
	}
	defer func() { _ = file.Close() }()

	job, err := h.documentService.Upload(c.Request.Context(), &service.UploadInput{
		FileName:     fileHeader.Filename,
		DocumentType: docType,
		Content:      file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, job)
}

// GetStatus handles GET /api/v1/documents/:id/status.
func (h *DocumentHandler) GetStatus(c *gin.Context) {
	id, ok := parseJobID(c)
	if !ok {
		return
	}

	job, err := h.documentService.GetJob(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, job)
}

// GetResult handles GET /api/v1/documents/:id/result. Results are only
// available once the job has completed.
func (h *DocumentHandler) GetResult(c *gin.Context) {
	id, ok := parseJobID(c)
	if !ok {
		return
	}

	record, err := h.documentService.GetResult(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, record)
}

// List handles GET /api/v1/documents.
func (h *DocumentHandler) List(c *gin.Context) {
	RespondOK(c, h.documentService.ListJobs(c.Request.Context()))
}

// ListTypes handles GET /api/v1/document-types.
func (h *DocumentHandler) ListTypes(c *gin.Context) {
	RespondOK(c, domain.SupportedDocumentTypes())
}

func parseJobID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return uuid.Nil, false
	}
	return id, true
}
