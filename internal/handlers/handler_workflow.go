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

// workflowHandler handles HTTP requests for escalation delay configuration
// and maintenance jobs.
type workflowHandler struct {
	settingService portssvc.WorkflowSettingSvcFacade
	budgetService  portssvc.BudgetSvcFacade
}

func newWorkflowHandler(settingService portssvc.WorkflowSettingSvcFacade, budgetService portssvc.BudgetSvcFacade) *workflowHandler {
	return &workflowHandler{settingService: settingService, budgetService: budgetService}
}

func registerWorkflowRoutes(rg *gin.RouterGroup, settingService portssvc.WorkflowSettingSvcFacade, budgetService portssvc.BudgetSvcFacade) {
	h := newWorkflowHandler(settingService, budgetService)

	settings := rg.Group("/workflow-settings")
	{
		settings.GET("", h.listSettings)
		settings.PUT("", h.upsertSetting)
	}

	maintenance := rg.Group("/maintenance")
	{
		maintenance.POST("/reconcile", h.reconcile)
	}
}

// listSettings returns the escalation delay of every configured level.
func (h *workflowHandler) listSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	settings, err := h.settingService.ListSettings(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list workflow settings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list workflow settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": dto.ToWorkflowSettingResponses(settings)})
}

// upsertSetting sets the escalation delay for one level. Zero disables it.
func (h *workflowHandler) upsertSetting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpsertWorkflowSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for upsertSetting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	setting := domain.WorkflowSetting{
		Level:        domain.Level(req.Level),
		DelayMinutes: req.DelayMinutes,
	}
	if err := h.settingService.UpsertSetting(c.Request.Context(), setting, userID); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to upsert workflow setting", slog.String("level", req.Level), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save workflow setting"})
		return
	}

	c.JSON(http.StatusOK, dto.WorkflowSettingResponse{Level: req.Level, DelayMinutes: req.DelayMinutes})
}

// reconcile triggers the budget backfill for settled requisitions that never
// consumed their budget.
func (h *workflowHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fixed, err := h.budgetService.Reconcile(c.Request.Context())
	if err != nil {
		logger.Error("Budget reconciliation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reconciled": fixed})
}
