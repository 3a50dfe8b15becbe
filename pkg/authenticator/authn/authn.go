package authn

import (
	"context"
	"errors"
	"fmt"

	"github.com/doodlesbykumbi/footprint/pkg/authenticator"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
)

// Name of the API key authenticator.
const Name = "authn"

// Authenticator implements API key authentication
type Authenticator struct {
	users  store.UsersStore
	health store.HealthStore
}

// New creates a new API key authenticator
func New(users store.UsersStore, health store.HealthStore) *Authenticator {
	return &Authenticator{
		users:  users,
		health: health,
	}
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return Name
}

// Authenticate checks the API key against the stored bcrypt hash for the login.
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.AuthenticatorInput) (*authenticator.Principal, error) {
	if input.Login == "" {
		return nil, errors.New("login is required")
	}
	if len(input.Credentials) == 0 {
		return nil, authenticator.ErrAuthenticationFailed
	}

	user, err := a.users.FindUserByEmail(ctx, input.Login)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, authenticator.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if !user.CheckAPIKey(string(input.Credentials)) {
		return nil, authenticator.ErrAuthenticationFailed
	}

	return &authenticator.Principal{
		UserID: user.ID,
		Login:  user.Email,
	}, nil
}

// Status checks if the authenticator is healthy
func (a *Authenticator) Status(ctx context.Context) error {
	return a.health.CheckConnectivity()
}
