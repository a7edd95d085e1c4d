// Package blog holds the API data types and thin service wrappers for the
// blog REST API: authentication, posts, comments and users.
//
// Services take any Doer, normally a *transport.Transport, so every call gets
// the bearer token and the refresh protocol for free:
//
//	api := blog.NewServices(tr)
//	page, err := api.Posts.ListPublished(ctx, blog.PageRequest{Size: 20})
//
// Login, registration and token refresh are sent anonymously: a 401 there
// means bad credentials, not an expired session.
package blog
