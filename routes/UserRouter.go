package routes

import (
	"github.com/gin-gonic/gin"

	"threadline/controllers"
)

func UserRouter(incomingRoutes *gin.RouterGroup, uc *controllers.UserController, auth gin.HandlerFunc) {
	incomingRoutes.POST("/signup", uc.SignUp)
	incomingRoutes.POST("/login", uc.Login)
	incomingRoutes.POST("/logout", auth, uc.Logout)
	incomingRoutes.GET("/me", auth, uc.Me)
	incomingRoutes.GET("/user/:id", auth, uc.UserDetails)
	incomingRoutes.PUT("/user/follow/:id", auth, uc.FollowUser)
	incomingRoutes.PUT("/update", auth, uc.UpdateProfile)
	incomingRoutes.GET("/users/search/:query", auth, uc.SearchUser)
}
