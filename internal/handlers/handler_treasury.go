package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ASOFES/R-quisitions-sub001/internal/apperrors"
	portssvc "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/services"
	"github.com/ASOFES/R-quisitions-sub001/internal/dto"
	"github.com/ASOFES/R-quisitions-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// treasuryHandler handles HTTP requests for treasury funds and movements.
type treasuryHandler struct {
	treasuryService portssvc.TreasurySvcFacade
}

func newTreasuryHandler(treasuryService portssvc.TreasurySvcFacade) *treasuryHandler {
	return &treasuryHandler{treasuryService: treasuryService}
}

func registerTreasuryRoutes(rg *gin.RouterGroup, treasuryService portssvc.TreasurySvcFacade) {
	h := newTreasuryHandler(treasuryService)

	funds := rg.Group("/funds")
	{
		funds.GET("", h.getFunds)
		funds.GET("/movements", h.listMovements)
		funds.POST("/ravitaillement", h.ravitaillement)
	}
}

// getFunds returns all fund balances.
func (h *treasuryHandler) getFunds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	funds, err := h.treasuryService.GetFunds(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list funds", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list funds"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"funds": dto.ToFundResponses(funds)})
}

// listMovements returns treasury movements, newest first. ?limit bounds the
// page size.
func (h *treasuryHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	movements, err := h.treasuryService.ListMovements(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Failed to list fund movements", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fund movements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"movements": dto.ToFundMovementResponses(movements)})
}

// ravitaillement replenishes one currency fund.
func (h *treasuryHandler) ravitaillement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RavitaillementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for ravitaillement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fund, err := h.treasuryService.Ravitaillement(c.Request.Context(), req.Currency, req.Amount, req.Description, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No fund exists for this currency"})
		default:
			logger.Error("Failed to replenish fund", slog.String("currency", req.Currency), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replenish fund"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.FundResponse{Currency: fund.Currency, Available: fund.Available})
}
