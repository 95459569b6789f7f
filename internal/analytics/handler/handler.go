// Package handler exposes the analytics HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prombaza_backend/internal/analytics/service"
	"prombaza_backend/internal/analytics/transport"
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

// RegisterPublicRoutes mounts the visitor-facing tracking endpoint.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/analytics", h.Record)
}

// RegisterAdminRoutes mounts the dashboard endpoint.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/analytics", h.List)
}

// Record stores a visitor action. User agent and client IP come from the
// request, never from the body.
func (h *Handler) Record(c *gin.Context) {
	var req transport.RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	event, err := h.svc.Record(c.Request.Context(), service.RecordParams{
		EventType: req.EventType,
		Data:      req.Data,
		UserAgent: c.GetHeader("User-Agent"),
		IP:        c.ClientIP(),
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, gin.H{
		"success":   true,
		"analytics": transport.ToEventResponse(event),
	})
}

// List returns the raw event log, newest first.
func (h *Handler) List(c *gin.Context) {
	events, err := h.svc.ListEvents(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToEventResponses(events))
}
