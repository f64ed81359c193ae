package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blogapi/internal/middleware"
	"blogapi/internal/service"
)

type VoteHandler interface {
	Vote(c *gin.Context)
}

type voteHandler struct {
	voteService service.VoteService
	log         *logrus.Logger
}

func NewVoteHandler(voteService service.VoteService, log *logrus.Logger) VoteHandler {
	return &voteHandler{voteService: voteService, log: log}
}

// VoteRequest casts (dir=1) or removes (dir=0) the caller's upvote on a post.
type VoteRequest struct {
	PostID int64 `json:"post_id" binding:"required"`
	Dir    *int  `json:"dir" binding:"required"`
}

func (h *voteHandler) Vote(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for vote: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.Dir != 0 && *req.Dir != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dir must be 0 or 1"})
		return
	}

	actor := middleware.CurrentUser(c)

	if *req.Dir == 1 {
		err := h.voteService.CastVote(actor, req.PostID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrPostNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Post does not exist"})
			case errors.Is(err, service.ErrAlreadyVoted):
				c.JSON(http.StatusConflict, gin.H{"error": "User has already voted on this post"})
			default:
				h.log.Errorf("Failed to cast vote on post %d: %v", req.PostID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cast vote"})
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"detail": "Vote added successfully"})
		return
	}

	err := h.voteService.RemoveVote(actor, req.PostID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post does not exist"})
		case errors.Is(err, service.ErrVoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Vote does not exist"})
		default:
			h.log.Errorf("Failed to remove vote on post %d: %v", req.PostID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove vote"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Vote removed successfully"})
}
