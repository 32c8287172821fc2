package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"threadline/engine"
	"threadline/helper"
)

type CommentController struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewCommentController(e *engine.Engine, logger *slog.Logger) *CommentController {
	return &CommentController{engine: e, logger: logger}
}

type commentRequest struct {
	Text string `json:"text" form:"text" validate:"required"`
}

func (cc *CommentController) AddComment(c *gin.Context) {
	actor, ok := helper.ExtractActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login first"})
		return
	}
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment cannot be empty"})
		return
	}

	comment, err := cc.engine.AddComment(c.Request.Context(), actor, postID, req.Text)
	if err != nil {
		respondError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "Added new comment!", "comment": comment})
}

func (cc *CommentController) DeleteComment(c *gin.Context) {
	actor, ok := helper.ExtractActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login first"})
		return
	}
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := cc.engine.DeleteComment(c.Request.Context(), actor, postID, commentID); err != nil {
		respondError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Comment deleted!"})
}
