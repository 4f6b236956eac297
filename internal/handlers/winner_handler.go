package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hosico-labs/bounty-backend/internal/services"
)

// WinnerHandler handles winner selection
type WinnerHandler struct {
	winnerService services.WinnerService
}

// NewWinnerHandler creates a new WinnerHandler
func NewWinnerHandler(winnerService services.WinnerService) *WinnerHandler {
	return &WinnerHandler{
		winnerService: winnerService,
	}
}

// SelectWinners handles PUT /bounty/select-winners
func (h *WinnerHandler) SelectWinners(c *gin.Context) {
	var req selectWinnersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	bounty, err := h.winnerService.SelectWinners(c.Request.Context(), req.WalletAddress, string(req.BountyID), req.Winners)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Winners selected successfully", "bounty": bounty})
}
