package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/services"
	"github.com/hosico-labs/bounty-backend/internal/utils"
)

// SubmissionHandler handles submission-related HTTP requests
type SubmissionHandler struct {
	submissionService services.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(submissionService services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// FindSubmission handles POST /submissions/find
func (h *SubmissionHandler) FindSubmission(c *gin.Context) {
	var req findSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	submission, err := h.submissionService.Find(c.Request.Context(), string(req.BountyID), req.WalletAddress)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": submission})
}

// CreateSubmission handles POST /submissions/create
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	if req.Submission == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "submission is required"})
		return
	}

	sub := &models.Submission{
		BountyID:      string(req.Submission.BountyID),
		WalletAddress: req.Submission.WalletAddress,
	}
	req.Submission.patch().Apply(sub)

	saved, created, err := h.submissionService.Create(c.Request.Context(), sub)
	if err != nil {
		respondError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "Submission updated successfully", "submission": saved})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Submission created successfully", "submission": saved})
}

// UpdateSubmission handles PUT /submissions/update
func (h *SubmissionHandler) UpdateSubmission(c *gin.Context) {
	var req updateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	if req.Submission == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "submission is required"})
		return
	}

	wallet := utils.FirstNonEmpty(req.WalletAddress, req.Submission.WalletAddress)
	updated, err := h.submissionService.Update(c.Request.Context(), wallet, string(req.SubmissionID), req.Submission.patch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Submission updated successfully", "submission": updated})
}
