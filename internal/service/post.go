package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"blogapi/internal/models"
	"blogapi/internal/repository"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotOwner     = errors.New("not the post owner")
)

type PostService interface {
	CreatePost(actor *models.User, title, content string, published bool) (*models.Post, error)
	GetPost(id int64) (*models.PostWithVotes, error)
	ListPosts() ([]*models.PostWithVotes, error)
	UpdatePost(actor *models.User, id int64, title, content string, published bool) (*models.Post, error)
	DeletePost(actor *models.User, id int64) error
}

type postService struct {
	posts  repository.PostRepository
	logger *zap.Logger
}

func NewPostService(posts repository.PostRepository, logger *zap.Logger) PostService {
	return &postService{posts: posts, logger: logger}
}

// authorizeMutation allows a mutation iff actor owns the post. A denial is
// ErrNotOwner (403 at the boundary), never ErrPostNotFound: post existence
// is not hidden from authenticated non-owners.
func (s *postService) authorizeMutation(actor *models.User, post *models.Post) error {
	if post.OwnerID != actor.ID {
		s.logger.Debug("Post mutation denied",
			zap.Int64("post_id", post.ID),
			zap.Int64("owner_id", post.OwnerID),
			zap.Int64("actor_id", actor.ID))
		return ErrNotOwner
	}
	return nil
}

func (s *postService) CreatePost(actor *models.User, title, content string, published bool) (*models.Post, error) {
	post := &models.Post{
		Title:     title,
		Content:   content,
		Published: published,
		OwnerID:   actor.ID,
	}

	if err := s.posts.CreatePost(post); err != nil {
		s.logger.Error("Failed to create post", zap.Error(err))
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (s *postService) GetPost(id int64) (*models.PostWithVotes, error) {
	post, err := s.posts.GetPostWithVotes(id)
	if err != nil {
		s.logger.Error("Failed to get post", zap.Int64("post_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) ListPosts() ([]*models.PostWithVotes, error) {
	posts, err := s.posts.GetAllPosts()
	if err != nil {
		s.logger.Error("Failed to list posts", zap.Error(err))
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *postService) UpdatePost(actor *models.User, id int64, title, content string, published bool) (*models.Post, error) {
	post, err := s.posts.GetPostByID(id)
	if err != nil {
		s.logger.Error("Failed to get post", zap.Int64("post_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if err := s.authorizeMutation(actor, post); err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content
	post.Published = published

	if err := s.posts.UpdatePost(post); err != nil {
		s.logger.Error("Failed to update post", zap.Int64("post_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

func (s *postService) DeletePost(actor *models.User, id int64) error {
	post, err := s.posts.GetPostByID(id)
	if err != nil {
		s.logger.Error("Failed to get post", zap.Int64("post_id", id), zap.Error(err))
		return fmt.Errorf("failed to retrieve post: %w", err)
	}
	if post == nil {
		return ErrPostNotFound
	}
	if err := s.authorizeMutation(actor, post); err != nil {
		return err
	}

	if err := s.posts.DeletePost(id); err != nil {
		s.logger.Error("Failed to delete post", zap.Int64("post_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}
