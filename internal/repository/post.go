package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"blogapi/internal/models"
)

type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id int64) (*models.Post, error)
	GetPostWithVotes(id int64) (*models.PostWithVotes, error)
	GetAllPosts() ([]*models.PostWithVotes, error)
	UpdatePost(post *models.Post) error
	DeletePost(id int64) error
}

type postRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPostRepository(db *sqlx.DB, logger *zap.Logger) PostRepository {
	return &postRepository{db: db, logger: logger}
}

func (r *postRepository) CreatePost(post *models.Post) error {
	query := `INSERT INTO posts (title, content, published, owner_id)
	          VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return r.db.QueryRowx(query, post.Title, post.Content, post.Published, post.OwnerID).StructScan(post)
}

func (r *postRepository) GetPostByID(id int64) (*models.Post, error) {
	var post models.Post
	query := `SELECT id, title, content, published, owner_id, created_at FROM posts WHERE id = $1`
	err := r.db.Get(&post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Post not found
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetPostWithVotes(id int64) (*models.PostWithVotes, error) {
	var post models.PostWithVotes
	query := `
		SELECT
			p.id, p.title, p.content, p.published, p.owner_id, p.created_at,
			COUNT(v.post_id) AS votes
		FROM posts p
		LEFT JOIN votes v ON p.id = v.post_id
		WHERE p.id = $1
		GROUP BY p.id
	`
	err := r.db.Get(&post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetAllPosts() ([]*models.PostWithVotes, error) {
	var posts []*models.PostWithVotes
	query := `
		SELECT
			p.id, p.title, p.content, p.published, p.owner_id, p.created_at,
			COUNT(v.post_id) AS votes
		FROM posts p
		LEFT JOIN votes v ON p.id = v.post_id
		GROUP BY p.id
		ORDER BY p.id
	`
	err := r.db.Select(&posts, query)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) UpdatePost(post *models.Post) error {
	query := `UPDATE posts SET title = $1, content = $2, published = $3 WHERE id = $4`
	_, err := r.db.Exec(query, post.Title, post.Content, post.Published, post.ID)
	return err
}

func (r *postRepository) DeletePost(id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}
