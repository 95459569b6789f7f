// Package handler exposes the document download HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prombaza_backend/internal/documents/service"
	"prombaza_backend/internal/documents/transport"
	"prombaza_backend/platform/httpkit"
	"prombaza_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterPublicRoutes mounts both download endpoints. The contact-gated
// endpoint streams the file; the legacy one only returns the public URL.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/download", h.Download)
	rg.GET("/download/:document", h.TrackLegacy)
}

// Download collects the visitor's contacts and streams the requested
// document as an attachment.
func (h *Handler) Download(c *gin.Context) {
	var req transport.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	download, err := h.svc.Request(c.Request.Context(), service.RequestParams{
		Name:         req.Name,
		Email:        req.Email,
		DocumentType: req.DocumentType,
		UserAgent:    c.GetHeader("User-Agent"),
		IP:           c.ClientIP(),
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+download.Filename+`"`)
	c.Header("Content-Type", download.ContentType)
	c.File(download.Path)
}

// TrackLegacy records a download event and points the client at the
// statically served file.
func (h *Handler) TrackLegacy(c *gin.Context) {
	document := c.Param("document")

	url := h.svc.TrackLegacy(c.Request.Context(), document, c.GetHeader("User-Agent"), c.ClientIP())

	httpkit.OK(c, gin.H{
		"success":     true,
		"message":     "Download initiated for " + document,
		"downloadUrl": url,
	})
}
