package blog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrymomot/blogclient/pkg/content"
)

// User is an account as returned by the API.
type User struct {
	CreatedAt           Timestamp  `json:"created_at"`
	UpdatedAt           Timestamp  `json:"updated_at"`
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	FirstName           string     `json:"first_name,omitempty"`
	LastName            string     `json:"last_name,omitempty"`
	Bio                 string     `json:"bio,omitempty"`
	Role                UserRole   `json:"role"`
	Status              UserStatus `json:"status"`
	FullName            string     `json:"fullName,omitempty"`
	ID                  int64      `json:"id"`
	PostsCount          int        `json:"postsCount,omitempty"`
	PublishedPostsCount int        `json:"publishedPostsCount,omitempty"`
	CommentsCount       int        `json:"commentsCount,omitempty"`
}

// DisplayName returns the first name, falling back to the username.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// Name returns the full name when known, otherwise the username.
func (u User) Name() string {
	if u.FullName != "" {
		return u.FullName
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return u.Username
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive reports whether the account is active.
func (u User) IsActive() bool {
	return u.Status == UserActive
}

// PostAuthor is the author summary embedded in a post.
type PostAuthor struct {
	Username string `json:"username"`
	ID       int64  `json:"id"`
}

// Post is a blog post.
type Post struct {
	PublishedAt *Timestamp `json:"published_at,omitempty"`
	CreatedAt   Timestamp  `json:"created_at"`
	UpdatedAt   Timestamp  `json:"updated_at"`
	Author      PostAuthor `json:"author"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Summary     string     `json:"summary,omitempty"`
	Status      PostStatus `json:"status"`
	ID          int64      `json:"id"`
}

// RenderHTML renders the Markdown body to sanitized HTML.
func (p Post) RenderHTML() (string, error) {
	return content.Render(p.Content)
}

// Excerpt returns the summary when set, otherwise the first n characters of
// the body as plain text.
func (p Post) Excerpt(n int) string {
	if p.Summary != "" {
		return p.Summary
	}
	return content.Excerpt(p.Content, n)
}

// CommentAuthor is the author summary embedded in a comment.
type CommentAuthor struct {
	Username string `json:"username"`
	FullName string `json:"fullName,omitempty"`
	ID       int64  `json:"id"`
}

// CommentPost is the post summary embedded in a comment.
type CommentPost struct {
	Title string `json:"title"`
	ID    int64  `json:"id"`
}

// Comment is a comment on a post.
type Comment struct {
	CreatedAt Timestamp     `json:"created_at"`
	UpdatedAt Timestamp     `json:"updated_at"`
	Author    CommentAuthor `json:"author"`
	Post      CommentPost   `json:"post"`
	Content   string        `json:"content"`
	ID        int64         `json:"id"`
	Active    bool          `json:"active"`
}

// PageInfo describes one page of a paginated listing.
type PageInfo struct {
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// HasNext reports whether a later page exists.
func (p PageInfo) HasNext() bool {
	return p.Number+1 < p.TotalPages
}

// Page is a paginated listing.
type Page[T any] struct {
	Content []T      `json:"content"`
	Page    PageInfo `json:"page"`
}

// DefaultPageSize is used when a PageRequest has no size.
const DefaultPageSize = 10

// PageRequest selects a page. Pages are zero-based.
type PageRequest struct {
	Page int
	Size int
}

// Query encodes the request as page/size query parameters.
func (r PageRequest) Query() url.Values {
	size := r.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	page := max(r.Page, 0)
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterPayload is the registration request body.
type RegisterPayload struct {
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
	Bio       string     `json:"bio,omitempty"`
	Role      UserRole   `json:"role,omitempty"`
	Status    UserStatus `json:"status,omitempty"`
}

// TokenResponse is the login response.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// PostPayload is the create and update body of a post.
type PostPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CommentPayload is the create body of a comment.
type CommentPayload struct {
	Content string `json:"content"`
}

// UserUpdatePayload is a partial user update; nil fields are left unchanged.
type UserUpdatePayload struct {
	Username  *string   `json:"username,omitempty"`
	Email     *string   `json:"email,omitempty"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Role      *UserRole `json:"role,omitempty"`
}
