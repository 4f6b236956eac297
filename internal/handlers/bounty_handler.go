package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hosico-labs/bounty-backend/internal/services"
)

// BountyHandler handles bounty-related HTTP requests
type BountyHandler struct {
	bountyService services.BountyService
}

// NewBountyHandler creates a new BountyHandler
func NewBountyHandler(bountyService services.BountyService) *BountyHandler {
	return &BountyHandler{
		bountyService: bountyService,
	}
}

// CreateBounty handles POST /create-bounty
func (h *BountyHandler) CreateBounty(c *gin.Context) {
	var req createBountyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	if req.Bounty == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bounty is required"})
		return
	}

	bounty, err := h.bountyService.Create(c.Request.Context(), req.WalletAddress, req.Bounty.bounty())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Bounty created successfully", "bounty": bounty})
}

// UpdateBounty handles POST /bounty/update
func (h *BountyHandler) UpdateBounty(c *gin.Context) {
	var req updateBountyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	if req.Bounty == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bounty is required"})
		return
	}

	bounty, err := h.bountyService.Update(c.Request.Context(), req.WalletAddress, string(req.Bounty.ID), req.Bounty.patch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bounty": bounty})
}

// DeleteBounty handles POST /bounty/delete
func (h *BountyHandler) DeleteBounty(c *gin.Context) {
	var req deleteBountyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	bounty, err := h.bountyService.Delete(c.Request.Context(), req.WalletAddress, string(req.BountyID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bounty deleted successfully", "bounty": bounty})
}

// GetBounties handles GET /bounties
func (h *BountyHandler) GetBounties(c *gin.Context) {
	bounties, err := h.bountyService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bounties": bounties})
}

// GetBountyByID handles GET /bounties/:id
func (h *BountyHandler) GetBountyByID(c *gin.Context) {
	bounty, err := h.bountyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bounty": bounty})
}

// GetCategories handles GET /categories
func (h *BountyHandler) GetCategories(c *gin.Context) {
	categories, err := h.bountyService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
