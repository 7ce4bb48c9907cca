package productivity

import (
	"context"
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleInstaller Role = "installer"
)

func ParseRole(raw string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleAdmin, RoleManager, RoleInstaller:
		return r, true
	default:
		return "", false
	}
}

// Caller is the authenticated identity placed in the request context by the
// transport layer.
type Caller struct {
	UserID      string
	Role        Role
	InstallerID string
}

type callerKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// SystemCaller is used by command-line maintenance tasks.
func SystemCaller() Caller {
	return Caller{UserID: "system", Role: RoleAdmin}
}

func requireRole(ctx context.Context, roles ...Role) (Caller, error) {
	c, ok := CallerFrom(ctx)
	if !ok {
		return Caller{}, fmt.Errorf("%w: missing caller identity", ErrForbidden)
	}
	for _, r := range roles {
		if c.Role == r {
			return c, nil
		}
	}
	return Caller{}, fmt.Errorf("%w: role %q not allowed", ErrForbidden, c.Role)
}

func requireManager(ctx context.Context) (Caller, error) {
	return requireRole(ctx, RoleManager, RoleAdmin)
}

// requireInstaller returns the caller's installer id.
func requireInstaller(ctx context.Context) (string, error) {
	c, err := requireRole(ctx, RoleInstaller)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(c.InstallerID) == "" {
		return "", fmt.Errorf("%w: caller is not linked to an installer", ErrForbidden)
	}
	return c.InstallerID, nil
}
