package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"blogapi/internal/models"
	"blogapi/internal/repository"
)

var (
	ErrVoteNotFound = errors.New("vote not found")
	ErrAlreadyVoted = errors.New("user has already voted on this post")
)

type VoteService interface {
	CastVote(actor *models.User, postID int64) error
	RemoveVote(actor *models.User, postID int64) error
}

type voteService struct {
	votes  repository.VoteRepository
	posts  repository.PostRepository
	logger *zap.Logger
}

func NewVoteService(votes repository.VoteRepository, posts repository.PostRepository, logger *zap.Logger) VoteService {
	return &voteService{votes: votes, posts: posts, logger: logger}
}

func (s *voteService) CastVote(actor *models.User, postID int64) error {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		s.logger.Error("Failed to get post", zap.Int64("post_id", postID), zap.Error(err))
		return fmt.Errorf("failed to retrieve post: %w", err)
	}
	if post == nil {
		return ErrPostNotFound
	}

	vote := &models.Vote{PostID: postID, UserID: actor.ID}
	if err := s.votes.CreateVote(vote); err != nil {
		// The composite primary key rejects a second vote by the same user.
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyVoted
		}
		s.logger.Error("Failed to create vote", zap.Int64("post_id", postID), zap.Error(err))
		return fmt.Errorf("failed to create vote: %w", err)
	}
	return nil
}

func (s *voteService) RemoveVote(actor *models.User, postID int64) error {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		s.logger.Error("Failed to get post", zap.Int64("post_id", postID), zap.Error(err))
		return fmt.Errorf("failed to retrieve post: %w", err)
	}
	if post == nil {
		return ErrPostNotFound
	}

	vote, err := s.votes.GetVote(postID, actor.ID)
	if err != nil {
		s.logger.Error("Failed to get vote", zap.Int64("post_id", postID), zap.Error(err))
		return fmt.Errorf("failed to retrieve vote: %w", err)
	}
	if vote == nil {
		return ErrVoteNotFound
	}

	if err := s.votes.DeleteVote(postID, actor.ID); err != nil {
		s.logger.Error("Failed to delete vote", zap.Int64("post_id", postID), zap.Error(err))
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	return nil
}
