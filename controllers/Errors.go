package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"threadline/engine"
	"threadline/middlewares"
)

// StatusFor maps an engine error kind to the HTTP status the caller sees.
func StatusFor(kind engine.Kind) int {
	switch kind {
	case engine.KindValidation:
		return http.StatusBadRequest
	case engine.KindNotFound:
		return http.StatusNotFound
	case engine.KindForbidden:
		return http.StatusForbidden
	case engine.KindConflict:
		return http.StatusConflict
	case engine.KindMedia:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := StatusFor(engine.KindOf(err))
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"path", c.FullPath(),
			"status", status,
			"request_id", c.GetString(middlewares.RequestIDKey),
			"error", err,
		)
	}
	c.JSON(status, gin.H{"error": engine.Message(err)})
}

// paramID parses an ObjectID path parameter, answering 400 when malformed.
func paramID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}
