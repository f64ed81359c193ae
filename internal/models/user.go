package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Claims defines the structure of the JWT claims. The subject holds the
// user id in decimal form.
type Claims struct {
	jwt.RegisteredClaims
}
