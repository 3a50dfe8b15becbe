package identity

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/doodlesbykumbi/footprint/pkg/token"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"

	// GuestPrefix prefixes the user ID of guest identities.
	GuestPrefix = "guest-"
)

// Identity represents the authenticated caller of a request.
type Identity struct {
	// Token claims
	UserID    string
	Login     string
	Guest     bool
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Request context
	RemoteIP net.IP
}

// FromClaims creates an Identity from verified token claims.
func FromClaims(c *token.Claims) *Identity {
	id := &Identity{
		UserID: c.Subject,
		Login:  c.Login,
		Guest:  c.Guest || IsGuestID(c.Subject),
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// IsGuestID reports whether userID belongs to a guest.
func IsGuestID(userID string) bool {
	return strings.HasPrefix(userID, GuestPrefix)
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
