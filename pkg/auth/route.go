package auth

import (
	"context"
	"net/url"
)

// Route names used by the store.
const (
	RouteHome  = "home"
	RouteLogin = "login"
)

// Redirect reasons attached to login redirects as the redirectReason query
// parameter.
const (
	ReasonAuth           = "auth"
	ReasonSessionExpired = "session_expired"
)

// Route is a navigation target.
type Route struct {
	Query url.Values
	Name  string
}

// Reason returns the redirectReason query parameter.
func (r Route) Reason() string {
	return r.Query.Get("redirectReason")
}

// RouteMeta is the access policy of a route.
type RouteMeta struct {
	RequiresAuth  bool
	RequiresAdmin bool
	// RequiresGuest routes, such as login, send signed-in users home.
	RequiresGuest bool
}

// Router performs in-app navigation.
type Router interface {
	Push(ctx context.Context, to Route) error
}

type nopRouter struct{}

func (nopRouter) Push(context.Context, Route) error { return nil }

func loginRoute(reason string) Route {
	return Route{Name: RouteLogin, Query: url.Values{"redirectReason": {reason}}}
}
