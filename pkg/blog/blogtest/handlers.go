package blogtest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/blogclient/pkg/blog"
)

type userIDKey struct{}

// errorBody mirrors the API error shape.
type errorBody struct {
	Timestamp string `json:"timestamp"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if status == http.StatusUnauthorized {
		s.unauthorized.Add(1)
	}
	writeJSON(w, status, errorBody{
		Timestamp: s.clock.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   msg,
		Path:      r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func currentUser(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey{}).(int64)
	return id
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			s.writeError(w, r, http.StatusUnauthorized, "Full authentication is required")
			return
		}

		_, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return s.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(s.clock.Now),
		)

		s.mu.Lock()
		id, issued := s.accessTokens[raw]
		s.mu.Unlock()

		if err != nil || !issued {
			s.writeError(w, r, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, id)))
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var p blog.LoginPayload
	if !decode(r, &p) {
		s.writeError(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.users {
		if a.user.Username != p.Username {
			continue
		}
		if bcrypt.CompareHashAndPassword(a.hash, []byte(p.Password)) != nil {
			break
		}
		access, refresh := s.issueLocked(a.user.ID)
		writeJSON(w, http.StatusOK, blog.TokenResponse{AccessToken: access, RefreshToken: refresh, User: a.user})
		return
	}
	s.writeError(w, r, http.StatusUnauthorized, "Invalid username or password")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var p blog.RegisterPayload
	if !decode(r, &p) || p.Username == "" || p.Email == "" || p.Password == "" {
		s.writeError(w, r, http.StatusBadRequest, "Username, email and password are required")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.MinCost)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.existsLocked(p.Username, p.Email) {
		s.writeError(w, r, http.StatusConflict, "Username or email already taken")
		return
	}

	now := blog.Timestamp{Time: s.clock.Now().UTC()}
	s.nextID++
	u := blog.User{
		ID:        s.nextID,
		Username:  p.Username,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Bio:       p.Bio,
		Role:      blog.RoleUser,
		Status:    blog.UserActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[u.ID] = &account{user: u, hash: hash}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	s.refreshes.Add(1)
	if s.refreshDelay > 0 {
		time.Sleep(s.refreshDelay)
	}

	body, _ := io.ReadAll(r.Body)
	token := strings.TrimSpace(string(body))

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.refreshTokens[token]
	a, exists := s.users[id]
	if !ok || !exists {
		s.writeError(w, r, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	delete(s.refreshTokens, token)
	access, refresh := s.issueLocked(id)
	writeJSON(w, http.StatusOK, blog.TokenResponse{AccessToken: access, RefreshToken: refresh, User: a.user})
}

func (s *Server) exists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.existsLocked(q.Get("username"), q.Get("email")))
}

func (s *Server) existsLocked(username, email string) bool {
	for _, a := range s.users {
		if (username != "" && a.user.Username == username) || (email != "" && strings.EqualFold(a.user.Email, email)) {
			return true
		}
	}
	return false
}

// Posts

func (s *Server) addPostLocked(authorID int64, p blog.PostPayload, status blog.PostStatus) blog.Post {
	now := blog.Timestamp{Time: s.clock.Now().UTC()}
	s.nextID++
	post := &blog.Post{
		ID:        s.nextID,
		Title:     p.Title,
		Content:   p.Content,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if a, ok := s.users[authorID]; ok {
		post.Author = blog.PostAuthor{ID: a.user.ID, Username: a.user.Username}
	}
	if status == blog.PostPublished {
		post.PublishedAt = &now
	}
	s.posts[post.ID] = post
	return *post
}

func (s *Server) selectPosts(keep func(*blog.Post) bool) []blog.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []blog.Post
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, *p)
		}
	}
	slices.SortFunc(out, func(a, b blog.Post) int { return int(a.ID - b.ID) })
	return out
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, paginate(r, s.selectPosts(func(*blog.Post) bool { return true })))
}

func (s *Server) listPublished(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, paginate(r, s.selectPosts(func(p *blog.Post) bool {
		return p.Status == blog.PostPublished
	})))
}

func (s *Server) listPostsByAuthor(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	writeJSON(w, http.StatusOK, paginate(r, s.selectPosts(func(p *blog.Post) bool {
		return p.Author.ID == id
	})))
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[pathID(r)]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "Post not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var p blog.PostPayload
	if !decode(r, &p) || p.Title == "" {
		s.writeError(w, r, http.StatusBadRequest, "Title is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusCreated, s.addPostLocked(currentUser(r), p, blog.PostDraft))
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	var p blog.PostPayload
	if !decode(r, &p) {
		s.writeError(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[pathID(r)]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "Post not found")
		return
	}
	if !s.canModifyLocked(r, post.Author.ID) {
		s.writeError(w, r, http.StatusForbidden, "Not the author")
		return
	}
	post.Title, post.Content = p.Title, p.Content
	post.UpdatedAt = blog.Timestamp{Time: s.clock.Now().UTC()}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) updatePostStatus(w http.ResponseWriter, r *http.Request) {
	status, err := blog.ParsePostStatus(r.URL.Query().Get("status"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid status")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[pathID(r)]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "Post not found")
		return
	}
	if !s.canModifyLocked(r, post.Author.ID) {
		s.writeError(w, r, http.StatusForbidden, "Not the author")
		return
	}
	now := blog.Timestamp{Time: s.clock.Now().UTC()}
	post.Status = status
	post.UpdatedAt = now
	if status == blog.PostPublished && post.PublishedAt == nil {
		post.PublishedAt = &now
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[pathID(r)]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "Post not found")
		return
	}
	if !s.canModifyLocked(r, post.Author.ID) {
		s.writeError(w, r, http.StatusForbidden, "Not the author")
		return
	}
	delete(s.posts, post.ID)
	for id, c := range s.comments {
		if c.Post.ID == post.ID {
			delete(s.comments, id)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Comments

func (s *Server) addCommentLocked(postID, authorID int64, body string) blog.Comment {
	now := blog.Timestamp{Time: s.clock.Now().UTC()}
	s.nextID++
	c := &blog.Comment{ID: s.nextID, Content: body, Active: true, CreatedAt: now, UpdatedAt: now}
	if p, ok := s.posts[postID]; ok {
		c.Post = blog.CommentPost{ID: p.ID, Title: p.Title}
	}
	if a, ok := s.users[authorID]; ok {
		c.Author = blog.CommentAuthor{ID: a.user.ID, Username: a.user.Username, FullName: a.user.Name()}
	}
	s.comments[c.ID] = c
	return *c
}

func (s *Server) selectComments(keep func(*blog.Comment) bool) []blog.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []blog.Comment
	for _, c := range s.comments {
		if keep(c) {
			out = append(out, *c)
		}
	}
	slices.SortFunc(out, func(a, b blog.Comment) int { return int(a.ID - b.ID) })
	return out
}

func (s *Server) listCommentsByPost(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	writeJSON(w, http.StatusOK, paginate(r, s.selectComments(func(c *blog.Comment) bool {
		return c.Post.ID == id
	})))
}

func (s *Server) listCommentsByAuthor(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	writeJSON(w, http.StatusOK, paginate(r, s.selectComments(func(c *blog.Comment) bool {
		return c.Author.ID == id
	})))
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var p blog.CommentPayload
	if !decode(r, &p) || p.Content == "" {
		s.writeError(w, r, http.StatusBadRequest, "Content is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[pathID(r)]; !ok {
		s.writeError(w, r, http.StatusNotFound, "Post not found")
		return
	}
	writeJSON(w, http.StatusCreated, s.addCommentLocked(pathID(r), currentUser(r), p.Content))
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[pathID(r)]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "Comment not found")
		return
	}
	if !s.canModifyLocked(r, c.Author.ID) {
		s.writeError(w, r, http.StatusForbidden, "Not the author")
		return
	}
	delete(s.comments, c.ID)
	w.WriteHeader(http.StatusNoContent)
}

// Users

func (s *Server) canModifyLocked(r *http.Request, ownerID int64) bool {
	id := currentUser(r)
	if id == ownerID {
		return true
	}
	a, ok := s.users[id]
	return ok && a.user.IsAdmin()
}

func (s *Server) requireAdminLocked(w http.ResponseWriter, r *http.Request) bool {
	a, ok := s.users[currentUser(r)]
	if !ok || !a.user.IsAdmin() {
		s.writeError(w, r, http.StatusForbidden, "Admin role required")
		return false
	}
	return true
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := make([]blog.User, 0, len(s.users))
	for _, a := range s.users {
		users = append(users, a.user)
	}
	s.mu.Unlock()
	slices.SortFunc(users, func(a, b blog.User) int { return int(a.ID - b.ID) })
	writeJSON(w, http.StatusOK, paginate(r, users))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[pathID(r)]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, s.withCountsLocked(a.user))
}

func (s *Server) withCountsLocked(u blog.User) blog.User {
	u.PostsCount, u.PublishedPostsCount, u.CommentsCount = 0, 0, 0
	for _, p := range s.posts {
		if p.Author.ID == u.ID {
			u.PostsCount++
			if p.Status == blog.PostPublished {
				u.PublishedPostsCount++
			}
		}
	}
	for _, c := range s.comments {
		if c.Author.ID == u.ID {
			u.CommentsCount++
		}
	}
	return u
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var p blog.UserUpdatePayload
	if !decode(r, &p) {
		s.writeError(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[pathID(r)]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "User not found")
		return
	}
	if !s.canModifyLocked(r, a.user.ID) {
		s.writeError(w, r, http.StatusForbidden, "Not allowed")
		return
	}
	if p.Role != nil && !s.requireAdminLocked(w, r) {
		return
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&a.user.Username, p.Username)
	set(&a.user.Email, p.Email)
	set(&a.user.FirstName, p.FirstName)
	set(&a.user.LastName, p.LastName)
	set(&a.user.Bio, p.Bio)
	if p.Role != nil {
		a.user.Role = *p.Role
	}
	a.user.UpdatedAt = blog.Timestamp{Time: s.clock.Now().UTC()}
	writeJSON(w, http.StatusOK, a.user)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireAdminLocked(w, r) {
		return
	}
	id := pathID(r)
	if _, ok := s.users[id]; !ok {
		s.writeError(w, r, http.StatusNotFound, "User not found")
		return
	}
	delete(s.users, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateUserStatus(w http.ResponseWriter, r *http.Request) {
	status, err := blog.ParseUserStatus(r.URL.Query().Get("status"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid status")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireAdminLocked(w, r) {
		return
	}
	a, ok := s.users[pathID(r)]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "User not found")
		return
	}
	a.user.Status = status
	writeJSON(w, http.StatusOK, a.user)
}

func (s *Server) updatePassword(w http.ResponseWriter, r *http.Request) {
	var pair [2]string
	if !decode(r, &pair) || pair[1] == "" {
		s.writeError(w, r, http.StatusBadRequest, "Expected [oldPassword, newPassword]")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[pathID(r)]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "User not found")
		return
	}
	if currentUser(r) != a.user.ID {
		s.writeError(w, r, http.StatusForbidden, "Not allowed")
		return
	}
	if bcrypt.CompareHashAndPassword(a.hash, []byte(pair[0])) != nil {
		s.writeError(w, r, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pair[1]), bcrypt.MinCost)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	a.hash = hash
	w.WriteHeader(http.StatusNoContent)
}

func paginate[T any](r *http.Request, items []T) blog.Page[T] {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	if size <= 0 {
		size = blog.DefaultPageSize
	}
	page = max(page, 0)

	total := len(items)
	start := min(page*size, total)
	end := min(start+size, total)

	content := items[start:end]
	if content == nil {
		content = []T{}
	}
	return blog.Page[T]{
		Content: content,
		Page: blog.PageInfo{
			Size:          size,
			Number:        page,
			TotalElements: int64(total),
			TotalPages:    (total + size - 1) / size,
		},
	}
}
