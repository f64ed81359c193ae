package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"blogapi/internal/models"
)

type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
}

type userRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewUserRepository(db *sqlx.DB, log *logrus.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) CreateUser(user *models.User) error {
	query := `INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id, created_at`
	err := r.db.QueryRowx(query, user.Email, user.Password).StructScan(user)
	if err != nil {
		err = translateError(err)
		if !errors.Is(err, ErrDuplicate) {
			r.log.Errorf("Failed to insert user: %v", err)
		}
		return err
	}
	return nil
}

func (r *userRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, password, created_at FROM users WHERE email = $1`
	err := r.db.Get(&user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		r.log.Errorf("Failed to get user by email: %v", err)
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(id int64) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, password, created_at FROM users WHERE id = $1`
	err := r.db.Get(&user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.log.Errorf("Failed to get user %d: %v", id, err)
		return nil, err
	}
	return &user, nil
}
