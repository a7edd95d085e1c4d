// Package blogtest provides an in-memory blog API server for tests.
//
// The server issues real HS256 JWTs, rotates refresh tokens and stores
// bcrypt password hashes, so clients can be exercised end to end:
//
//	srv := blogtest.NewServer(t)
//	alice := srv.AddUser("alice", "Secret123", blog.RoleUser)
//	tr := transport.New(srv.BaseURL(), sess)
//
// RevokeAccessTokens makes every issued access token fail with 401, which
// drives the client refresh protocol.
package blogtest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/blogclient/pkg/blog"
)

// BasePath is the API prefix served by the server.
const BasePath = "/api"

type account struct {
	user blog.User
	hash []byte
}

// Server is a fake blog API. It is safe for concurrent use.
type Server struct {
	*httptest.Server

	clock     clockwork.Clock
	secret    []byte
	accessTTL time.Duration

	refreshes    atomic.Int32
	unauthorized atomic.Int32

	mu            sync.Mutex
	nextID        int64
	users         map[int64]*account
	posts         map[int64]*blog.Post
	comments      map[int64]*blog.Comment
	accessTokens  map[string]int64
	refreshTokens map[string]int64
	refreshDelay  time.Duration
	refreshPath   string
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock used for token timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithAccessTTL sets the lifetime of issued access tokens.
func WithAccessTTL(d time.Duration) Option {
	return func(s *Server) { s.accessTTL = d }
}

// WithRefreshDelay delays refresh responses, widening the window in which
// concurrent requests queue behind one refresh.
func WithRefreshDelay(d time.Duration) Option {
	return func(s *Server) { s.refreshDelay = d }
}

// WithRefreshPath serves the refresh endpoint at path instead of
// /auth/refresh.
func WithRefreshPath(path string) Option {
	return func(s *Server) { s.refreshPath = path }
}

// NewServer starts a server closed on test cleanup.
func NewServer(tb testing.TB, opts ...Option) *Server {
	tb.Helper()

	s := &Server{
		clock:         clockwork.NewRealClock(),
		secret:        []byte("blogtest-secret"),
		accessTTL:     15 * time.Minute,
		users:         make(map[int64]*account),
		posts:         make(map[int64]*blog.Post),
		comments:      make(map[int64]*blog.Comment),
		accessTokens:  make(map[string]int64),
		refreshTokens: make(map[string]int64),
		refreshPath:   "/auth/refresh",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(s.router())
	tb.Cleanup(s.Close)
	return s
}

// BaseURL returns the API root URL.
func (s *Server) BaseURL() string {
	return s.URL + BasePath
}

// Refreshes returns how many refresh calls succeeded or failed so far.
func (s *Server) Refreshes() int {
	return int(s.refreshes.Load())
}

// Unauthorized returns how many requests were rejected with 401.
func (s *Server) Unauthorized() int {
	return int(s.unauthorized.Load())
}

// AddUser creates an active user with the given password.
func (s *Server) AddUser(username, password string, role blog.UserRole) blog.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := blog.Timestamp{Time: s.clock.Now().UTC()}
	s.nextID++
	u := blog.User{
		ID:        s.nextID,
		Username:  username,
		Email:     username + "@example.com",
		Role:      role,
		Status:    blog.UserActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[u.ID] = &account{user: u, hash: hash}
	return u
}

// SetUserStatus changes a user's status.
func (s *Server) SetUserStatus(id int64, status blog.UserStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.users[id]; ok {
		a.user.Status = status
	}
}

// AddPost creates a post by authorID.
func (s *Server) AddPost(authorID int64, title, body string, status blog.PostStatus) blog.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPostLocked(authorID, blog.PostPayload{Title: title, Content: body}, status)
}

// AddComment adds a comment by authorID on postID.
func (s *Server) AddComment(postID, authorID int64, body string) blog.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCommentLocked(postID, authorID, body)
}

// IssueTokens returns a fresh token pair for userID.
func (s *Server) IssueTokens(userID int64) (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(userID)
}

// RevokeAccessTokens invalidates every issued access token. Refresh tokens
// stay valid.
func (s *Server) RevokeAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.accessTokens)
}

// RevokeRefreshTokens invalidates every issued refresh token.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.refreshTokens)
}

func (s *Server) issueLocked(userID int64) (string, string) {
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	refresh := uuid.NewString()

	s.accessTokens[access] = userID
	s.refreshTokens[refresh] = userID
	return access, refresh
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix(BasePath).Subrouter()

	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	api.HandleFunc(s.refreshPath, s.refresh).Methods(http.MethodPost)
	api.HandleFunc("/posts/published", s.listPublished).Methods(http.MethodGet)
	api.HandleFunc("/users/validation/exists", s.exists).Methods(http.MethodGet)

	private := api.NewRoute().Subrouter()
	private.Use(s.authenticate)

	private.HandleFunc("/posts", s.listPosts).Methods(http.MethodGet)
	private.HandleFunc("/posts", s.createPost).Methods(http.MethodPost)
	private.HandleFunc("/posts/author/{id:[0-9]+}", s.listPostsByAuthor).Methods(http.MethodGet)
	private.HandleFunc("/posts/{id:[0-9]+}", s.getPost).Methods(http.MethodGet)
	private.HandleFunc("/posts/{id:[0-9]+}", s.updatePost).Methods(http.MethodPut)
	private.HandleFunc("/posts/{id:[0-9]+}", s.deletePost).Methods(http.MethodDelete)
	private.HandleFunc("/posts/{id:[0-9]+}/status", s.updatePostStatus).Methods(http.MethodPatch)
	private.HandleFunc("/posts/{id:[0-9]+}/comments", s.listCommentsByPost).Methods(http.MethodGet)
	private.HandleFunc("/posts/{id:[0-9]+}/comments", s.createComment).Methods(http.MethodPost)
	private.HandleFunc("/comments/{id:[0-9]+}", s.deleteComment).Methods(http.MethodDelete)

	private.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	private.HandleFunc("/users/{id:[0-9]+}", s.getUser).Methods(http.MethodGet)
	private.HandleFunc("/users/{id:[0-9]+}", s.updateUser).Methods(http.MethodPut)
	private.HandleFunc("/users/{id:[0-9]+}", s.deleteUser).Methods(http.MethodDelete)
	private.HandleFunc("/users/{id:[0-9]+}/status", s.updateUserStatus).Methods(http.MethodPatch)
	private.HandleFunc("/users/{id:[0-9]+}/password", s.updatePassword).Methods(http.MethodPatch)
	private.HandleFunc("/users/{id:[0-9]+}/comments", s.listCommentsByAuthor).Methods(http.MethodGet)

	return r
}
