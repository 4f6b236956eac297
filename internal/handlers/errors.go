package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hosico-labs/bounty-backend/internal/services"
)

// statusFor maps a service error onto its HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrAlreadyFinalized):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the single {error} body every failure produces.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	var svcErr *services.Error
	switch {
	case status == http.StatusGatewayTimeout:
		msg = "request timed out"
	case status == http.StatusInternalServerError && !errors.As(err, &svcErr):
		msg = "internal server error"
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}

func respondBadBody(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
