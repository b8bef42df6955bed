// Package authz is the single authorization gate. Every operation declares a
// Requirement as data and the gate is the only place that evaluates it.
package authz

import (
	"context"
	"fmt"

	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/models"
)

type kind uint8

const (
	kindPublic kind = iota
	kindAuthenticated
	kindRole
)

type Requirement struct {
	kind kind
	role models.Role
}

var (
	Public        = Requirement{kind: kindPublic}
	Authenticated = Requirement{kind: kindAuthenticated}
)

func Role(r models.Role) Requirement { return Requirement{kind: kindRole, role: r} }

func (r Requirement) String() string {
	switch r.kind {
	case kindAuthenticated:
		return "authenticated"
	case kindRole:
		return "role:" + string(r.role)
	default:
		return "public"
	}
}

// Check evaluates req against the identity carried by ctx. For Public the
// identity may be absent and the zero Identity is returned.
func Check(ctx context.Context, req Requirement) (auth.Identity, error) {
	id, ok := auth.IdentityFrom(ctx)
	if req.kind == kindPublic {
		return id, nil
	}
	if !ok {
		return auth.Identity{}, apperr.Unauthenticated("")
	}
	if req.kind == kindRole && id.Role != req.role {
		return auth.Identity{}, apperr.Forbidden(fmt.Sprintf("Requires %s role", req.role))
	}
	return id, nil
}

// Guard returns fn wrapped by Check. fn only runs when the requirement holds.
func Guard[T any](req Requirement, fn func(ctx context.Context, id auth.Identity) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		id, err := Check(ctx, req)
		if err != nil {
			var zero T
			return zero, err
		}
		return fn(ctx, id)
	}
}
