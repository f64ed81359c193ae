package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"blogapi/internal/models"
)

type VoteRepository interface {
	GetVote(postID, userID int64) (*models.Vote, error)
	CreateVote(vote *models.Vote) error
	DeleteVote(postID, userID int64) error
}

type voteRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewVoteRepository(db *sqlx.DB, logger *zap.Logger) VoteRepository {
	return &voteRepository{db: db, logger: logger}
}

func (r *voteRepository) GetVote(postID, userID int64) (*models.Vote, error) {
	var vote models.Vote
	query := `SELECT post_id, user_id FROM votes WHERE post_id = $1 AND user_id = $2`
	err := r.db.Get(&vote, query, postID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Vote not found
		}
		return nil, err
	}
	return &vote, nil
}

func (r *voteRepository) CreateVote(vote *models.Vote) error {
	query := `INSERT INTO votes (post_id, user_id) VALUES ($1, $2)`
	_, err := r.db.Exec(query, vote.PostID, vote.UserID)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (r *voteRepository) DeleteVote(postID, userID int64) error {
	query := `DELETE FROM votes WHERE post_id = $1 AND user_id = $2`
	_, err := r.db.Exec(query, postID, userID)
	return err
}
