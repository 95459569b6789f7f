// Package handler exposes the leads HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"prombaza_backend/internal/leads/service"
	"prombaza_backend/internal/leads/transport"
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

// RegisterPublicRoutes mounts the visitor-facing capture endpoint.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/leads", h.Create)
}

// RegisterAdminRoutes mounts the dashboard endpoints.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/leads", h.List)
	rg.GET("/leads/scored", h.ListScored)
	rg.GET("/leads/export", h.Export)
	rg.PATCH("/leads/:id", h.Update)
}

// Create accepts a landing page submission: quiz completion, contact form,
// or document request.
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), service.CreateParams{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Type:        req.Type,
		Message:     req.Message,
		QuizAnswers: req.QuizAnswers,
		UserAgent:   c.GetHeader("User-Agent"),
		IP:          c.ClientIP(),
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, gin.H{
		"success": true,
		"lead":    transport.ToLeadResponse(lead),
	})
}

// List returns every lead with its cached score, newest first.
func (h *Handler) List(c *gin.Context) {
	leads, err := h.svc.List(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToLeadResponses(leads))
}

// ListScored returns leads with freshly recomputed scores and analysis,
// filtered and ordered per the query.
func (h *Handler) ListScored(c *gin.Context) {
	var req transport.ScoredListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	scored, err := h.svc.ListScored(c.Request.Context(), service.ScoredQuery{
		Priority:  req.Priority,
		Status:    req.Status,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	out := make([]transport.ScoredLeadResponse, 0, len(scored))
	for _, item := range scored {
		out = append(out, transport.ScoredLeadResponse{
			LeadResponse: transport.ToLeadResponse(item.Lead),
			Analysis:     item.Analysis,
		})
	}
	httpkit.OK(c, out)
}

// Update applies a partial update to a lead. Status changes stamp the last
// activity time and are recorded as analytics events.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), id, service.UpdateParams{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Message:   req.Message,
		Status:    req.Status,
		UserAgent: c.GetHeader("User-Agent"),
		IP:        c.ClientIP(),
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{
		"success": true,
		"lead":    transport.ToLeadResponse(lead),
	})
}
