// Package session decides which screen the app opens on and runs the
// login/register workflow against an identity provider.
package session

import "github.com/harrisonrobin/clockit/pkg/identity"

// Route names a screen.
type Route string

const (
	RouteAuth     Route = "auth"
	RouteCalendar Route = "calendar"
	RouteActive   Route = "active"
	RouteProfile  Route = "profile"
)

// InitialRoute is evaluated once at start. It is not re-checked if the
// session later expires.
func InitialRoute(p identity.Provider) Route {
	if p.CurrentUser() == nil {
		return RouteAuth
	}
	return RouteCalendar
}
