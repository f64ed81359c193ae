package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blogapi/internal/middleware"
	"blogapi/internal/service"
)

type PostHandler interface {
	ListPosts(c *gin.Context)
	GetPost(c *gin.Context)
	CreatePost(c *gin.Context)
	UpdatePost(c *gin.Context)
	DeletePost(c *gin.Context)
}

type postHandler struct {
	postService service.PostService
	log         *logrus.Logger
}

func NewPostHandler(postService service.PostService, log *logrus.Logger) PostHandler {
	return &postHandler{postService: postService, log: log}
}

type PostRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Published *bool  `json:"published"`
}

// published defaults to true when the client omits it.
func (r *PostRequest) published() bool {
	if r.Published == nil {
		return true
	}
	return *r.Published
}

func (h *postHandler) ListPosts(c *gin.Context) {
	posts, err := h.postService.ListPosts()
	if err != nil {
		h.log.Errorf("Failed to list posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *postHandler) GetPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := h.postService.GetPost(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.log.Errorf("Failed to get post %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *postHandler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for post creation: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.CurrentUser(c)
	post, err := h.postService.CreatePost(actor, req.Title, req.Content, req.published())
	if err != nil {
		h.log.Errorf("Failed to create post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *postHandler) UpdatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for post update: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.CurrentUser(c)
	post, err := h.postService.UpdatePost(actor, id, req.Title, req.Content, req.published())
	if err != nil {
		if !h.mutationError(c, err) {
			h.log.Errorf("Failed to update post %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		}
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *postHandler) DeletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	actor := middleware.CurrentUser(c)
	err := h.postService.DeletePost(actor, id)
	if err != nil {
		if !h.mutationError(c, err) {
			h.log.Errorf("Failed to delete post %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// mutationError writes the response for the expected ownership-path errors
// and reports whether it handled err.
func (h *postHandler) mutationError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return true
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to perform requested action"})
		return true
	}
	return false
}

func postID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return 0, false
	}
	return id, true
}
