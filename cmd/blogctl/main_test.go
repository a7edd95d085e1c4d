package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogclient"
	"github.com/dmitrymomot/blogclient/pkg/blog"
	"github.com/dmitrymomot/blogclient/pkg/blog/blogtest"
	"github.com/dmitrymomot/blogclient/pkg/logger"
)

type cli struct {
	t   *testing.T
	srv *blogtest.Server
	cfg blogclient.Config
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	srv := blogtest.NewServer(t)
	return &cli{
		t:   t,
		srv: srv,
		cfg: blogclient.Config{
			APIURL:         srv.BaseURL(),
			RefreshPath:    "/auth/refresh",
			SessionBackend: blogclient.BackendFile,
			SessionFile:    filepath.Join(t.TempDir(), "session.json"),
			Language:       "en",
			Timeout:        5 * time.Second,
			RefreshTimeout: 5 * time.Second,
		},
	}
}

// run executes one blogctl invocation with stdin and returns its output.
func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()

	var out bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out)
	a.cfg = &c.cfg
	a.opts = []blogclient.Option{blogclient.WithLogger(logger.NewNope())}

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.ExecuteContext(context.Background())
	a.close()

	a.mu.Lock()
	defer a.mu.Unlock()
	return out.String(), err
}

func (c *cli) login(username, password string) {
	c.t.Helper()
	_, err := c.run("", "login", "-u", username, "-p", password)
	require.NoError(c.t, err)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("flags", func(t *testing.T) {
		t.Parallel()
		c := newCLI(t)
		c.srv.AddUser("alice", "Secret123", blog.RoleUser)

		out, err := c.run("", "login", "-u", "alice", "-p", "Secret123")
		require.NoError(t, err)
		assert.Contains(t, out, "Welcome, alice!")

		out, err = c.run("", "whoami")
		require.NoError(t, err)
		assert.Contains(t, out, "alice")
		assert.Contains(t, out, "USER")
	})

	t.Run("prompted", func(t *testing.T) {
		t.Parallel()
		c := newCLI(t)
		c.srv.AddUser("alice", "Secret123", blog.RoleUser)

		out, err := c.run("alice\nSecret123\n", "login")
		require.NoError(t, err)
		assert.Contains(t, out, "Username: ")
		assert.Contains(t, out, "Password: ")
		assert.Contains(t, out, "Welcome, alice!")
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		c := newCLI(t)

		out, err := c.run("\n\n", "login")
		require.ErrorIs(t, err, errReported)
		assert.Contains(t, out, "username: This field is required")
		assert.Contains(t, out, "password: This field is required")
	})

	t.Run("bad credentials", func(t *testing.T) {
		t.Parallel()
		c := newCLI(t)
		c.srv.AddUser("alice", "Secret123", blog.RoleUser)

		out, err := c.run("", "login", "-u", "alice", "-p", "wrong")
		require.ErrorIs(t, err, errReported)
		assert.Contains(t, out, "Login failed: Invalid username or password")
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	c := newCLI(t)
	c.srv.AddUser("alice", "Secret123", blog.RoleUser)
	c.login("alice", "Secret123")

	out, err := c.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "You have been logged out")

	out, err = c.run("", "whoami")
	require.ErrorIs(t, err, blogclient.ErrNotSignedIn)
	assert.Contains(t, out, `Run "blogctl login" to sign in again.`)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("invalid input never reaches the API", func(t *testing.T) {
		t.Parallel()
		c := newCLI(t)

		out, err := c.run("", "register", "-u", "a", "--email", "nope", "-p", "weak", "--confirm", "other")
		require.ErrorIs(t, err, errReported)
		assert.Contains(t, out, "username: Username must be 3-30 alphanumeric characters")
		assert.Contains(t, out, "email: Must be a valid email address")
		assert.Contains(t, out, "password: Password must have at least 8 characters")
		assert.Contains(t, out, "confirm: Passwords do not match")
		assert.Zero(t, c.srv.Unauthorized())
	})

	t.Run("translated messages", func(t *testing.T) {
		t.Parallel()
		c := newCLI(t)

		out, err := c.run("", "--lang", "pt-BR", "register", "-u", "bob", "--email", "x", "-p", "Secret123", "--confirm", "Secret123")
		require.ErrorIs(t, err, errReported)
		assert.Contains(t, out, "email: E-mail deve ser válido")
	})

	t.Run("taken username", func(t *testing.T) {
		t.Parallel()
		c := newCLI(t)
		c.srv.AddUser("alice", "Secret123", blog.RoleUser)

		out, err := c.run("", "register", "-u", "alice", "--email", "a2@example.com", "-p", "Secret123", "--confirm", "Secret123")
		require.ErrorIs(t, err, errReported)
		assert.Contains(t, out, "username: This value is already taken")
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		c := newCLI(t)

		out, err := c.run("", "register", "-u", "bob", "--email", "bob@example.com", "-p", "Secret123", "--confirm", "Secret123", "--first-name", "Bob")
		require.NoError(t, err)
		assert.Contains(t, out, "Account created. Welcome, Bob!")

		c.login("bob", "Secret123")
	})
}

func TestPosts(t *testing.T) {
	t.Parallel()

	c := newCLI(t)
	alice := c.srv.AddUser("alice", "Secret123", blog.RoleUser)
	c.srv.AddPost(alice.ID, "Published one", "Some **body**", blog.PostPublished)
	c.srv.AddPost(alice.ID, "Draft one", "wip", blog.PostDraft)

	out, err := c.run("", "posts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Published one")
	assert.NotContains(t, out, "Draft one")

	_, err = c.run("", "posts", "list", "--all")
	require.ErrorIs(t, err, blogclient.ErrNotSignedIn)

	c.login("alice", "Secret123")

	out, err = c.run("", "posts", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Draft one")

	out, err = c.run("", "posts", "create", "--title", "Fresh", "--content", "# Hi\n\nthere")
	require.NoError(t, err)
	assert.Contains(t, out, "created post #")

	out, err = c.run("", "posts", "create", "--content", "no title")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "title: This field is required")

	out, err = c.run("", "posts", "list", "--author", itoa(alice.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Fresh")
	assert.Contains(t, out, "Draft one")
}

func TestPosts_ShowAndStatus(t *testing.T) {
	t.Parallel()

	c := newCLI(t)
	alice := c.srv.AddUser("alice", "Secret123", blog.RoleUser)
	post := c.srv.AddPost(alice.ID, "Title", "Some **bold** text", blog.PostDraft)
	c.login("alice", "Secret123")

	id := itoa(post.ID)

	out, err := c.run("", "posts", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Some bold text")

	out, err = c.run("", "posts", "show", id, "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>bold</strong>")

	out, err = c.run("", "posts", "status", id, "published")
	require.NoError(t, err)
	assert.Contains(t, out, "is PUBLISHED")

	_, err = c.run("", "posts", "status", id, "gone")
	require.ErrorIs(t, err, blog.ErrInvalidStatus)

	_, err = c.run("", "posts", "show", "abc")
	require.ErrorIs(t, err, blog.ErrInvalidID)
}

func TestPosts_DeleteConfirmation(t *testing.T) {
	t.Parallel()

	c := newCLI(t)
	alice := c.srv.AddUser("alice", "Secret123", blog.RoleUser)
	post := c.srv.AddPost(alice.ID, "Doomed", "body", blog.PostDraft)
	c.login("alice", "Secret123")
	id := itoa(post.ID)

	out, err := c.run("n\n", "posts", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Delete post #"+id+"? [y/N]: ")
	assert.Contains(t, out, "Cancelled")

	_, err = c.run("", "posts", "show", id)
	require.NoError(t, err)

	out, err = c.run("y\n", "posts", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted post #"+id)

	_, err = c.run("", "posts", "show", id)
	require.Error(t, err)
}

func TestComments(t *testing.T) {
	t.Parallel()

	c := newCLI(t)
	alice := c.srv.AddUser("alice", "Secret123", blog.RoleUser)
	post := c.srv.AddPost(alice.ID, "Post", "body", blog.PostPublished)
	c.login("alice", "Secret123")
	id := itoa(post.ID)

	out, err := c.run("", "comments", "add", id, "great", "post")
	require.NoError(t, err)
	assert.Contains(t, out, "added comment #")

	out, err = c.run("", "comments", "list", id)
	require.NoError(t, err)
	assert.Contains(t, out, "great post")

	out, err = c.run("", "comments", "list", "--author", itoa(alice.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "great post")

	_, err = c.run("", "comments", "list")
	require.ErrorIs(t, err, errPostOrAuthor)
}

func TestUsers_AdminOnly(t *testing.T) {
	t.Parallel()

	c := newCLI(t)
	alice := c.srv.AddUser("alice", "Secret123", blog.RoleUser)
	c.srv.AddUser("root", "Admin1234", blog.RoleAdmin)

	c.login("alice", "Secret123")
	out, err := c.run("", "users", "list")
	require.ErrorIs(t, err, errForbidden)
	assert.Contains(t, out, "You do not have permission")

	c.login("root", "Admin1234")
	out, err = c.run("", "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "alice@example.com")

	out, err = c.run("", "users", "status", itoa(alice.ID), "suspended")
	require.NoError(t, err)
	assert.Contains(t, out, "alice is SUSPENDED")
}

func TestProfile(t *testing.T) {
	t.Parallel()

	c := newCLI(t)
	alice := c.srv.AddUser("alice", "Secret123", blog.RoleUser)
	post := c.srv.AddPost(alice.ID, "My post", "body", blog.PostPublished)
	c.srv.AddComment(post.ID, alice.ID, "self reply")
	c.login("alice", "Secret123")

	c.srv.RevokeAccessTokens()

	out, err := c.run("", "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "(@alice)")
	assert.Contains(t, out, "1 posts (1 published), 1 comments")
	assert.Contains(t, out, "My post")
	assert.Contains(t, out, "self reply")
	assert.Equal(t, 1, c.srv.Refreshes())
}

func TestSessionExpiry(t *testing.T) {
	t.Parallel()

	c := newCLI(t)
	c.srv.AddUser("alice", "Secret123", blog.RoleUser)
	c.login("alice", "Secret123")

	c.srv.RevokeAccessTokens()
	c.srv.RevokeRefreshTokens()

	out, err := c.run("", "posts", "list", "--all")
	require.Error(t, err)
	assert.Contains(t, out, "Your session has expired")
	assert.Contains(t, out, `Run "blogctl login" to sign in again.`)

	_, err = c.run("", "whoami")
	require.ErrorIs(t, err, blogclient.ErrNotSignedIn)
}
