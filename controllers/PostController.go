package controllers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"threadline/engine"
	"threadline/helper"
)

type PostController struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewPostController(e *engine.Engine, logger *slog.Logger) *PostController {
	return &PostController{engine: e, logger: logger}
}

func (pc *PostController) AddPost(c *gin.Context) {
	actor, ok := helper.ExtractActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login first"})
		return
	}

	text := c.PostForm("text")
	media, closeMedia, err := formUpload(c, "media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeMedia()

	post, err := pc.engine.AddPost(c.Request.Context(), actor, text, media)
	if err != nil {
		if post != nil {
			// the post exists, only its media is missing
			pc.logger.Warn("post created without media", "post_id", post.ID.Hex(), "error", err)
			c.JSON(StatusFor(engine.KindOf(err)), gin.H{"error": engine.Message(err), "post": post})
			return
		}
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "Post created!", "post": post})
}

func (pc *PostController) AllPosts(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
			return
		}
		page = parsed
	}

	posts, err := pc.engine.ListPosts(c.Request.Context(), page)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Posts fetched!", "posts": posts})
}

func (pc *PostController) SinglePost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	post, err := pc.engine.GetPost(c.Request.Context(), id)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Post fetched!", "post": post})
}

func (pc *PostController) LikePost(c *gin.Context) {
	actor, ok := helper.ExtractActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login first"})
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	liked, err := pc.engine.LikePost(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	msg := "you unliked this post!"
	if liked {
		msg = "you liked this post!"
	}
	c.JSON(http.StatusOK, gin.H{"msg": msg, "liked": liked})
}

func (pc *PostController) DeletePost(c *gin.Context) {
	actor, ok := helper.ExtractActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login first"})
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := pc.engine.DeletePost(c.Request.Context(), actor, id); err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Post deleted!"})
}

func (pc *PostController) Repost(c *gin.Context) {
	actor, ok := helper.ExtractActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login first"})
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := pc.engine.Repost(c.Request.Context(), actor, id); err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "Reposted!"})
}

func (pc *PostController) Unrepost(c *gin.Context) {
	actor, ok := helper.ExtractActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login first"})
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := pc.engine.Unrepost(c.Request.Context(), actor, id); err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Repost removed!"})
}

// GetImage streams a stored media file.
func (pc *PostController) GetImage(c *gin.Context) {
	file, contentType, err := pc.engine.Media().Open(c.Request.Context(), c.Param("image_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}
	defer file.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		pc.logger.Warn("failed to stream image", "image_id", c.Param("image_id"), "error", err)
	}
}
