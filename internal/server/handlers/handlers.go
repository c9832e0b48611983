// Package handlers adapts HTTP requests to the service layer: bind, call,
// translate errors, encode JSON.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/apperr"
)

// respondError maps the error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is a 500 with a generic body; the details stay in the log.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if appErr, ok := apperr.As(err); ok {
		c.JSON(statusFor(appErr.Code), gin.H{"message": appErr.Message})
		return
	}

	if logger != nil {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	default:
		// Validation, stock and coupon failures are all client errors.
		return http.StatusBadRequest
	}
}

// objectIDParam parses a hex object id path parameter.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid %s", name)
	}
	return id, nil
}
