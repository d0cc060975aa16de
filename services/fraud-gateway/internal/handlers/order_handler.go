package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/konduto-go/pkg"
	"github.com/nimeshabuddhika/konduto-go/pkg/konduto"
	"github.com/nimeshabuddhika/konduto-go/pkg/utils"
	"github.com/nimeshabuddhika/konduto-go/services/fraud-gateway/internal/services"
	"github.com/nimeshabuddhika/konduto-go/services/fraud-gateway/internal/views"
	"go.uber.org/zap"
)

const maxOrderBytes = 512 << 10

type OrderHandler struct {
	logger  *zap.Logger
	service services.AnalysisService
}

func NewOrderHandler(logger *zap.Logger, svc services.AnalysisService) *OrderHandler {
	return &OrderHandler{logger: logger, service: svc}
}

// RegisterRoutes registers order routes on the provided Gin engine.
func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/orders", h.AnalyzeOrder)
	r.GET("/orders/:id", h.GetAnalysis)
	r.GET("/orders/:id/konduto", h.FetchOrder)
	r.PUT("/orders/:id/status", h.UpdateStatus)
}

// AnalyzeOrder accepts an order in Konduto's wire format and answers with its score.
func (h *OrderHandler) AnalyzeOrder(c *gin.Context) {
	traceID, ok := h.traceID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxOrderBytes)
	raw, err := c.GetRawData()
	if err != nil {
		fail(c, h.logger, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid request body", err))
		return
	}
	order, err := konduto.FromJSON[konduto.Order](raw)
	if err != nil {
		fail(c, h.logger, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid request body", err))
		return
	}

	analysis, err := h.service.AnalyzeOrder(c.Request.Context(), traceID, order)
	if err != nil {
		fail(c, h.logger, traceID, err)
		return
	}
	c.JSON(http.StatusCreated, views.APIResponse{
		TraceID: traceID,
		Data:    views.NewAnalysisView(analysis, nil),
	})
}

func (h *OrderHandler) GetAnalysis(c *gin.Context) {
	traceID, ok := h.traceID(c)
	if !ok {
		return
	}

	analysis, order, err := h.service.GetAnalysis(c.Request.Context(), traceID, c.Param("id"))
	if err != nil {
		fail(c, h.logger, traceID, err)
		return
	}
	c.JSON(http.StatusOK, views.APIResponse{
		TraceID: traceID,
		Data:    views.NewAnalysisView(analysis, order),
	})
}

// FetchOrder proxies Konduto's current view of the order.
func (h *OrderHandler) FetchOrder(c *gin.Context) {
	traceID, ok := h.traceID(c)
	if !ok {
		return
	}

	order, err := h.service.FetchOrder(c.Request.Context(), traceID, c.Param("id"))
	if err != nil {
		fail(c, h.logger, traceID, err)
		return
	}
	c.JSON(http.StatusOK, views.APIResponse{TraceID: traceID, Data: order})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	traceID, ok := h.traceID(c)
	if !ok {
		return
	}

	var req views.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.logger, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid request body", err))
		return
	}
	if err := h.service.UpdateStatus(c.Request.Context(), traceID, c.Param("id"), req.Status, req.Comments); err != nil {
		fail(c, h.logger, traceID, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) traceID(c *gin.Context) (string, bool) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		fail(c, h.logger, "", pkg.NewAppError(pkg.ErrServerCode, "missing trace id", err))
		return "", false
	}
	return traceID, true
}
