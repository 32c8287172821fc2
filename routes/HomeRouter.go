package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func HomeRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
