package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ASOFES/R-quisitions-sub001/internal/apperrors"
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portssvc "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/services"
	"github.com/ASOFES/R-quisitions-sub001/internal/dto"
	"github.com/ASOFES/R-quisitions-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// requisitionHandler handles HTTP requests related to requisitions and their
// workflow actions.
type requisitionHandler struct {
	requisitionService portssvc.RequisitionSvcFacade
	workflowService    portssvc.WorkflowSvcFacade
	auditService       portssvc.AuditSvcFacade
	treasuryService    portssvc.TreasurySvcFacade
}

func newRequisitionHandler(
	requisitionService portssvc.RequisitionSvcFacade,
	workflowService portssvc.WorkflowSvcFacade,
	auditService portssvc.AuditSvcFacade,
	treasuryService portssvc.TreasurySvcFacade,
) *requisitionHandler {
	return &requisitionHandler{
		requisitionService: requisitionService,
		workflowService:    workflowService,
		auditService:       auditService,
		treasuryService:    treasuryService,
	}
}

func registerRequisitionRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newRequisitionHandler(services.Requisition, services.Workflow, services.Audit, services.Treasury)

	requisitions := rg.Group("/requisitions")
	{
		requisitions.POST("", h.createRequisition)
		requisitions.GET("/:requisitionID", h.getRequisition)
		requisitions.PUT("/:requisitionID/items", h.replaceLineItems)
		requisitions.POST("/:requisitionID/actions", h.applyAction)
		requisitions.GET("/:requisitionID/history", h.getHistory)
		requisitions.GET("/:requisitionID/payment", h.getPayment)
	}
}

// createRequisition creates a draft requisition owned by the caller.
func (h *requisitionHandler) createRequisition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createRequisition", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	issuerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Issuer user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	requisition, err := h.requisitionService.CreateRequisition(c.Request.Context(), req, issuerID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown service"})
		default:
			logger.Error("Failed to create requisition", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create requisition"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToRequisitionResponse(requisition))
}

// getRequisition retrieves one requisition with its line items.
func (h *requisitionHandler) getRequisition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	requisition, err := h.requisitionService.GetRequisition(c.Request.Context(), requisitionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Requisition not found"})
			return
		}
		logger.Error("Failed to get requisition", slog.String("requisition_id", requisitionID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve requisition"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRequisitionResponse(requisition))
}

// replaceLineItems swaps the full line-item set of an editable requisition.
func (h *requisitionHandler) replaceLineItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	var req dto.ReplaceLineItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for replaceLineItems", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	items, err := h.requisitionService.ReplaceLineItems(c.Request.Context(), requisitionID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Requisition not found"})
		case errors.Is(err, apperrors.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to replace line items", slog.String("requisition_id", requisitionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace line items"})
		}
		return
	}

	responses := make([]dto.LineItemResponse, len(items))
	for i, item := range items {
		responses[i] = dto.LineItemResponse{
			LineItemID:  item.LineItemID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
			Currency:    item.Currency,
		}
	}
	c.JSON(http.StatusOK, gin.H{"lineItems": responses})
}

// applyAction applies one workflow action (approve, request changes, reject)
// to a requisition on behalf of the authenticated actor.
func (h *requisitionHandler) applyAction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	var req dto.ApplyActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for applyAction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	role, ok := middleware.GetUserRoleFromContext(c)
	if !ok {
		logger.Error("Actor role not found in context")
		c.JSON(http.StatusForbidden, gin.H{"error": "No workflow role assigned"})
		return
	}

	result, err := h.workflowService.Apply(
		c.Request.Context(),
		requisitionID,
		domain.Action(req.Action),
		domain.Role(role),
		actorID,
		req.Comment,
		portssvc.ApplyOptions{PaymentMode: req.PaymentMode},
	)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Requisition not found"})
		case errors.Is(err, apperrors.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrStaleState):
			c.JSON(http.StatusConflict, gin.H{"error": "Requisition was modified concurrently, please retry"})
		case errors.Is(err, apperrors.ErrUnsupportedTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrBudgetExceeded):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to apply workflow action",
				slog.String("requisition_id", requisitionID),
				slog.String("action", req.Action),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply action"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ApplyActionResponse{
		FromLevel: string(result.FromLevel),
		ToLevel:   string(result.ToLevel),
	})
}

// getHistory returns the audit trail of a requisition, oldest first.
func (h *requisitionHandler) getHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	records, err := h.auditService.List(c.Request.Context(), requisitionID)
	if err != nil {
		logger.Error("Failed to list action records", slog.String("requisition_id", requisitionID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": dto.ToActionRecordResponses(records)})
}

// getPayment returns the settlement receipt of a paid requisition.
func (h *requisitionHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	payment, err := h.treasuryService.GetPayment(c.Request.Context(), requisitionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No payment recorded for this requisition"})
			return
		}
		logger.Error("Failed to get payment", slog.String("requisition_id", requisitionID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payment"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}
