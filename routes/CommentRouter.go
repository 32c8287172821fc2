package routes

import (
	"github.com/gin-gonic/gin"

	"threadline/controllers"
)

func CommentRouter(incomingRoutes *gin.RouterGroup, cc *controllers.CommentController, auth gin.HandlerFunc) {
	incomingRoutes.POST("/comment/:id", auth, cc.AddComment)
	incomingRoutes.DELETE("/comment/:postId/:id", auth, cc.DeleteComment)
}
