package types

import (
	"context"
	"errors"
)

// Role is the authorization role attached to a resolved identity.
// SuperUser bypasses the ownership check on mutation.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleSuperUser Role = "superuser"
)

// Identity is an authenticated caller. The registry trusts OwnerID as
// a stable identifier; how credentials map to identities is the
// Authenticator's concern.
type Identity struct {
	OwnerID string `json:"owner_id" yaml:"owner_id"`
	Role    Role   `json:"role" yaml:"role"`
}

// ErrUnauthenticated is returned by Authenticators for a missing or
// unrecognized credential.
var ErrUnauthenticated = errors.New("missing or invalid credential")

// Authenticator resolves a presented credential to an identity.
// Implementations return ErrUnauthenticated for bad credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Identity, error)
}
