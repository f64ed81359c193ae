package service

import (
	"sync"

	"blogapi/internal/models"
	"blogapi/internal/repository"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. It
// implements UserRepository, PostRepository and VoteRepository with the same
// conventions: nil result for a missing row, repository.ErrDuplicate for
// unique-constraint violations.
type fakeStore struct {
	mu         sync.Mutex
	nextUserID int64
	nextPostID int64
	users      map[int64]*models.User
	posts      map[int64]*models.Post
	votes      map[models.Vote]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[int64]*models.User),
		posts: make(map[int64]*models.Post),
		votes: make(map[models.Vote]bool),
	}
}

var (
	_ repository.UserRepository = (*fakeStore)(nil)
	_ repository.PostRepository = (*fakeStore)(nil)
	_ repository.VoteRepository = (*fakeStore)(nil)
)

func (s *fakeStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *fakeStore) GetUserByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) GetUserByID(id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *fakeStore) CreatePost(post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPostID++
	post.ID = s.nextPostID
	stored := *post
	s.posts[post.ID] = &stored
	return nil
}

func (s *fakeStore) GetPostByID(id int64) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	copied := *post
	return &copied, nil
}

func (s *fakeStore) GetPostWithVotes(id int64) (*models.PostWithVotes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	return &models.PostWithVotes{Post: *post, Votes: s.countVotes(id)}, nil
}

func (s *fakeStore) GetAllPosts() ([]*models.PostWithVotes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := make([]*models.PostWithVotes, 0, len(s.posts))
	for id := int64(1); id <= s.nextPostID; id++ {
		post, ok := s.posts[id]
		if !ok {
			continue
		}
		posts = append(posts, &models.PostWithVotes{Post: *post, Votes: s.countVotes(id)})
	}
	return posts, nil
}

func (s *fakeStore) UpdatePost(post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[post.ID]; !ok {
		return nil
	}
	stored := *post
	s.posts[post.ID] = &stored
	return nil
}

func (s *fakeStore) DeletePost(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	for vote := range s.votes {
		if vote.PostID == id {
			delete(s.votes, vote)
		}
	}
	return nil
}

func (s *fakeStore) GetVote(postID, userID int64) (*models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.Vote{PostID: postID, UserID: userID}
	if !s.votes[key] {
		return nil, nil
	}
	return &key, nil
}

func (s *fakeStore) CreateVote(vote *models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.Vote{PostID: vote.PostID, UserID: vote.UserID}
	if s.votes[key] {
		return repository.ErrDuplicate
	}
	s.votes[key] = true
	return nil
}

func (s *fakeStore) DeleteVote(postID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.votes, models.Vote{PostID: postID, UserID: userID})
	return nil
}

func (s *fakeStore) countVotes(postID int64) int64 {
	var count int64
	for vote := range s.votes {
		if vote.PostID == postID {
			count++
		}
	}
	return count
}
