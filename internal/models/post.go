package models

import "time"

type Post struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Published bool      `db:"published" json:"published"`
	OwnerID   int64     `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PostWithVotes is a Post together with its upvote count.
type PostWithVotes struct {
	Post
	Votes int64 `db:"votes" json:"votes"`
}

// Vote marks that a user has upvoted a post. Presence of the row is the
// vote; there is no value column.
type Vote struct {
	PostID int64 `db:"post_id" json:"post_id"`
	UserID int64 `db:"user_id" json:"user_id"`
}
