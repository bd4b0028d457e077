// Package handler exposes the order fulfillment HTTP API.
package handler

import (
	"net/http"

	"doorcraft_backend/internal/orders/service"
	"doorcraft_backend/internal/orders/transport"
	"doorcraft_backend/platform/httpkit"
	"doorcraft_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for order tracking.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the order routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/:quoteId", h.GetByQuoteID)
	rg.POST("/:quoteId/transition", h.Transition)
	rg.POST("/:quoteId/deposits", h.MarkDeposit)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tracking, err := h.svc.CreateTracking(c.Request.Context(), req.QuoteID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, service.ToResponse(tracking))
}

func (h *Handler) GetByQuoteID(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("quoteId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	tracking, err := h.svc.GetByQuoteID(c.Request.Context(), quoteID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, service.ToResponse(tracking))
}

func (h *Handler) Transition(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("quoteId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tracking, err := h.svc.ApplyTransition(c.Request.Context(), service.ApplyInput{
		QuoteID: quoteID,
		ToStage: req.ToStage,
		Source:  service.SourceAdmin,
		Fields:  req,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, service.ToResponse(tracking))
}

func (h *Handler) MarkDeposit(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("quoteId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.MarkDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tracking, err := h.svc.MarkDepositPaid(c.Request.Context(), quoteID, req.Deposit, service.SourceAdmin)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, service.ToResponse(tracking))
}
