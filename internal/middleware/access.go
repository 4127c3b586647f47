package middleware

import (
	"sync"

	"storefront/domain"
)

type Level int

const (
	LevelAuthenticated Level = iota
	LevelPublic
	LevelRole
)

// Access is the requirement attached to a route.
type Access struct {
	Level Level
	Role  domain.Role
}

var (
	Public        = Access{Level: LevelPublic}
	Authenticated = Access{Level: LevelAuthenticated}
)

func RequireRole(role domain.Role) Access {
	return Access{Level: LevelRole, Role: role}
}

// RouteTable classifies requests by exact METHOD + route pattern, the same
// pattern echo reports through c.Path().
type RouteTable struct {
	mu     sync.RWMutex
	routes map[string]Access
}

func NewRouteTable() *RouteTable {
	return &RouteTable{routes: make(map[string]Access)}
}

func routeKey(method, path string) string {
	return method + " " + path
}

func (t *RouteTable) Register(method, path string, access Access) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[routeKey(method, path)] = access
}

// Lookup returns Authenticated for routes that were never registered.
func (t *RouteTable) Lookup(method, path string) Access {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if access, ok := t.routes[routeKey(method, path)]; ok {
		return access
	}
	return Authenticated
}

// Authorize reports whether a caller with role may use a route requiring access.
func Authorize(role domain.Role, access Access) bool {
	switch access.Level {
	case LevelPublic, LevelAuthenticated:
		return true
	case LevelRole:
		switch role {
		case domain.RoleUser, domain.RoleSuperAdmin:
			return role == access.Role
		default:
			return false
		}
	default:
		return false
	}
}
