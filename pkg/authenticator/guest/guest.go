// Package guest lets callers continue without an account. Each
// authentication mints a fresh guest-<uuid> principal.
package guest

import (
	"context"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/footprint/pkg/authenticator"
	"github.com/doodlesbykumbi/footprint/pkg/identity"
)

// Name of the guest authenticator.
const Name = "guest"

// Authenticator issues anonymous guest principals.
type Authenticator struct {
	newID func() string
}

// New creates a guest authenticator.
func New() *Authenticator {
	return &Authenticator{newID: uuid.NewString}
}

func (a *Authenticator) Name() string {
	return Name
}

// Authenticate ignores credentials.
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.AuthenticatorInput) (*authenticator.Principal, error) {
	id := identity.GuestPrefix + a.newID()
	return &authenticator.Principal{
		UserID: id,
		Login:  id,
		Guest:  true,
	}, nil
}

func (a *Authenticator) Status(ctx context.Context) error {
	return nil
}
