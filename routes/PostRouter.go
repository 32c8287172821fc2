package routes

import (
	"github.com/gin-gonic/gin"

	"threadline/controllers"
)

func PostRouter(incomingRoutes *gin.RouterGroup, pc *controllers.PostController, auth gin.HandlerFunc) {
	incomingRoutes.POST("/post", auth, pc.AddPost)
	incomingRoutes.GET("/post", auth, pc.AllPosts)
	incomingRoutes.GET("/post/:id", auth, pc.SinglePost)
	incomingRoutes.PUT("/post/:id", auth, pc.LikePost)
	incomingRoutes.DELETE("/post/:id", auth, pc.DeletePost)
	incomingRoutes.PUT("/repost/:id", auth, pc.Repost)
	incomingRoutes.DELETE("/repost/:id", auth, pc.Unrepost)
}

// MediaRouter serves stored images; media URLs are public.
func MediaRouter(incomingRoutes *gin.Engine, pc *controllers.PostController) {
	incomingRoutes.GET("/images/:image_id", pc.GetImage)
}
