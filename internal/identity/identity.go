// Package identity carries the user on whose behalf work is done.
//
// Every store read and write that belongs to a user takes an Identity
// explicitly, so there is no process-wide "current user".
package identity

import (
	"context"
	"errors"
	"fmt"
	"os/user"

	"github.com/google/uuid"
)

// ErrZero is returned when an operation receives the zero Identity.
var ErrZero = errors.New("identity: missing user id")

// namespace scopes name-derived local identities.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://pathmind.dev/users"))

// Identity names one learner.
type Identity struct {
	UserID uuid.UUID
}

// New wraps an existing user id.
func New(id uuid.UUID) Identity {
	return Identity{UserID: id}
}

// Parse reads an identity from its string form.
func Parse(s string) (Identity, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Identity{}, fmt.Errorf("parse user id: %w", err)
	}
	if id == uuid.Nil {
		return Identity{}, ErrZero
	}
	return Identity{UserID: id}, nil
}

// Anonymous mints a fresh random identity.
func Anonymous() Identity {
	return Identity{UserID: uuid.New()}
}

// FromName derives a stable identity from a name. The same name always
// yields the same identity.
func FromName(name string) Identity {
	return Identity{UserID: uuid.NewSHA1(namespace, []byte(name))}
}

// Local resolves the identity for the terminal app: an explicit id when
// configured, else one derived from the OS account name.
func Local(configured string) (Identity, error) {
	if configured != "" {
		return Parse(configured)
	}
	u, err := user.Current()
	if err != nil {
		return Identity{}, fmt.Errorf("resolve OS user: %w", err)
	}
	return FromName(u.Username), nil
}

func (i Identity) String() string {
	return i.UserID.String()
}

// IsZero reports whether no user is set.
func (i Identity) IsZero() bool {
	return i.UserID == uuid.Nil
}

type contextKey struct{}

// WithIdentity attaches an identity to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the identity attached by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok || id.IsZero() {
		return Identity{}, false
	}
	return id, true
}
