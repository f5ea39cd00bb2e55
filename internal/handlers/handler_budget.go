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

// budgetHandler handles HTTP requests for monthly budget lines.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(budgetService portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{budgetService: budgetService}
}

func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budgetLines := rg.Group("/budget-lines")
	{
		budgetLines.GET("", h.listBudgetLines)
		budgetLines.POST("", h.createBudgetLine)
		budgetLines.POST("/check", h.checkBudget)
	}
}

// listBudgetLines lists budget lines, optionally filtered by ?month=YYYY-MM.
func (h *budgetHandler) listBudgetLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	lines, err := h.budgetService.ListLines(c.Request.Context(), c.Query("month"))
	if err != nil {
		logger.Error("Failed to list budget lines", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list budget lines"})
		return
	}

	responses := make([]dto.BudgetLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = dto.ToBudgetLineResponse(line)
	}
	c.JSON(http.StatusOK, gin.H{"budgetLines": responses})
}

// createBudgetLine registers a new monthly allocation.
func (h *budgetHandler) createBudgetLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBudgetLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createBudgetLine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	line, err := h.budgetService.CreateLine(c.Request.Context(), domain.BudgetLine{
		Description:    req.Description,
		Month:          req.Month,
		Allocated:      req.Allocated,
		Classification: req.Classification,
	}, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "A budget line already exists for this description and month"})
		default:
			logger.Error("Failed to create budget line", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create budget line"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToBudgetLineResponse(*line))
}

// checkBudget reports whether an amount fits the remaining budget of a line.
func (h *budgetHandler) checkBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BudgetCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for checkBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.budgetService.Check(c.Request.Context(), req.Description, req.Amount, req.Currency, req.Month)
	if err != nil {
		logger.Error("Failed to check budget", slog.String("description", req.Description), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check budget"})
		return
	}

	c.JSON(http.StatusOK, result)
}
