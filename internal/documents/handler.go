package documents

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"study-backend/internal/shared/server/middleware"
	"study-backend/internal/shared/server/respond"
)

// multipart framing allowance on top of the file size cap
const formOverheadBytes = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.GET("/my-documents", h.list)
	rg.DELETE("/delete-document", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	email := middleware.UserEmailFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxUploadBytes+formOverheadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "file too large", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), email, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedFormat):
			respond.Error(c, http.StatusBadRequest, "unsupported_format", "Unsupported file format", nil)
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusBadRequest, "validation_error", "file too large", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		default:
			respond.ErrorWithCause(c, http.StatusInternalServerError, "internal_error", "Upload failed", err)
		}
		return
	}

	c.Set(middleware.DocumentKey, doc.Filename)
	respond.OK(c, uploadResponse{
		Success:      true,
		Filename:     doc.Filename,
		OriginalName: doc.OriginalName,
	})
}

func (h *Handler) list(c *gin.Context) {
	email := middleware.UserEmailFromContext(c)

	docs, err := h.Svc.List(c.Request.Context(), email)
	if err != nil {
		respond.ErrorWithCause(c, http.StatusInternalServerError, "internal_error", "failed to list documents", err)
		return
	}

	resp := listResponse{Documents: make([]DocumentSummary, 0, len(docs))}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, toSummary(doc))
	}
	respond.OK(c, resp)
}

func (h *Handler) delete(c *gin.Context) {
	email := middleware.UserEmailFromContext(c)

	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Filename = strings.TrimSpace(req.Filename)
	c.Set(middleware.DocumentKey, req.Filename)

	if err := h.Svc.Delete(c.Request.Context(), email, req.Filename); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
		default:
			respond.ErrorWithCause(c, http.StatusInternalServerError, "internal_error", "Failed to delete document", err)
		}
		return
	}

	respond.OK(c, gin.H{"success": true})
}
