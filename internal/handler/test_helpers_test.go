package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"blogapi/internal/auth"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/service"
)

// testEnv wires real services and handlers over an in-memory store, giving
// the tests the same routes the server exposes.
type testEnv struct {
	router *gin.Engine
	store  *fakeStore
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeStore()
	logger := zap.NewNop()
	log := logrus.New()
	log.SetOutput(io.Discard)

	tokens, err := auth.NewTokenService("test-secret", "HS256", time.Hour)
	require.NoError(t, err)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	authService := service.NewAuthService(store, hasher, tokens, logger)
	postService := service.NewPostService(store, logger)
	voteService := service.NewVoteService(store, store, logger)

	authHandler := NewAuthHandler(authService, log)
	userHandler := NewUserHandler(authService, log)
	postHandler := NewPostHandler(postService, log)
	voteHandler := NewVoteHandler(voteService, log)

	router := gin.New()
	router.POST("/login", authHandler.Login)
	router.POST("/users", userHandler.CreateUser)
	router.GET("/users/:id", userHandler.GetUser)
	router.GET("/posts", postHandler.ListPosts)
	router.GET("/posts/:id", postHandler.GetPost)

	authRequired := router.Group("/")
	authRequired.Use(middleware.AuthMiddleware(tokens, store, logger))
	{
		authRequired.POST("/posts", postHandler.CreatePost)
		authRequired.PUT("/posts/:id", postHandler.UpdatePost)
		authRequired.DELETE("/posts/:id", postHandler.DeletePost)
		authRequired.POST("/vote", voteHandler.Vote)
	}

	return &testEnv{router: router, store: store, tokens: tokens}
}

// do sends a JSON request, optionally with a bearer token, and returns the
// recorded response.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates a user and returns its bearer token.
func (e *testEnv) registerAndLogin(t *testing.T, email, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/users", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodPost, "/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// fakeStore is the handler-level copy of the in-memory repositories.
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
	user.CreatedAt = time.Now()
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

func (s *fakeStore) deleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *fakeStore) CreatePost(post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPostID++
	post.ID = s.nextPostID
	post.CreatedAt = time.Now()
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
