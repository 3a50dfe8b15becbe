// Package authenticator defines the interface for footprint authenticators.
//
// An authenticator turns login credentials into a Principal; the HTTP layer
// then issues an access token for it.
//
// # Authenticator Interface
//
//	type Authenticator interface {
//	    Name() string
//	    Authenticate(ctx context.Context, input AuthenticatorInput) (*Principal, error)
//	    Status(ctx context.Context) error
//	}
//
// # Built-in Authenticators
//
//   - authn: email + API key, see [github.com/doodlesbykumbi/footprint/pkg/authenticator/authn]
//   - guest: anonymous "continue as guest" sessions, see [github.com/doodlesbykumbi/footprint/pkg/authenticator/guest]
//
// # Configuration
//
// The server registers both and enables the ones listed in the
// authenticators configuration key:
//
//	FOOTPRINT_AUTHENTICATORS=authn,guest
package authenticator
