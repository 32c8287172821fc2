package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"threadline/engine"
	"threadline/helper"
	"threadline/middlewares"
	"threadline/models"
)

var validate = validator.New()

type UserController struct {
	engine   *engine.Engine
	secret   string
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewUserController(e *engine.Engine, secret string, tokenTTL time.Duration, logger *slog.Logger) *UserController {
	return &UserController{engine: e, secret: secret, tokenTTL: tokenTTL, logger: logger}
}

type signUpRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (uc *UserController) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
		return
	}

	user, err := uc.engine.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}
	if !uc.setSession(c, user) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"msg":  "User registered successfully. Welcome " + user.Username,
		"user": user,
	})
}

func (uc *UserController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := uc.engine.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}
	if !uc.setSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Logged in successfully!"})
}

// setSession issues a token for user and sets it as an http-only cookie.
func (uc *UserController) setSession(c *gin.Context, user *models.User) bool {
	token, err := helper.IssueToken(user.ID, uc.secret, uc.tokenTTL)
	if err != nil {
		uc.logger.Error("failed to sign session token", "user_id", user.ID.Hex(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.TokenCookie, token, int(uc.tokenTTL.Seconds()), "/", "", false, true)
	return true
}

func (uc *UserController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.TokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"msg": "You logged out!"})
}

func (uc *UserController) Me(c *gin.Context) {
	actor, ok := helper.ExtractActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login first"})
		return
	}
	profile, err := uc.engine.GetProfile(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"me": profile})
}

func (uc *UserController) UserDetails(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	profile, err := uc.engine.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "user details fetched", "user": profile})
}

func (uc *UserController) FollowUser(c *gin.Context) {
	actor, ok := helper.ExtractActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login first"})
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	following, err := uc.engine.Follow(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}
	msg := "Unfollowed"
	if following {
		msg = "Followed"
	}
	c.JSON(http.StatusOK, gin.H{"msg": msg, "following": following})
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	actor, ok := helper.ExtractActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login first"})
		return
	}

	var bio *string
	if text, present := c.GetPostForm("text"); present {
		bio = &text
	}
	media, closeMedia, err := formUpload(c, "media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeMedia()

	user, err := uc.engine.UpdateProfile(c.Request.Context(), actor, bio, media)
	if err != nil {
		if user != nil {
			c.JSON(StatusFor(engine.KindOf(err)), gin.H{"error": engine.Message(err), "user": user})
			return
		}
		respondError(c, uc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Profile updated!", "user": user})
}

func (uc *UserController) SearchUser(c *gin.Context) {
	users, err := uc.engine.SearchUsers(c.Request.Context(), c.Param("query"))
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Searched!", "users": users})
}
