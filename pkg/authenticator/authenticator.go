package authenticator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrAuthenticationFailed is returned for any credential mismatch. Callers
// must not reveal which part of the credentials was wrong.
var ErrAuthenticationFailed = errors.New("authentication failed")

// Authenticator defines the interface for all authenticators
type Authenticator interface {
	// Name returns the authenticator name (e.g., "authn", "guest")
	Name() string

	// Authenticate validates credentials and returns the principal on success
	Authenticate(ctx context.Context, input AuthenticatorInput) (*Principal, error)

	// Status checks if the authenticator is healthy
	Status(ctx context.Context) error
}

// AuthenticatorInput contains the input for authentication
type AuthenticatorInput struct {
	Login       string
	Credentials []byte
	ClientIP    string
}

// Principal is who an authenticator vouched for.
type Principal struct {
	UserID string
	Login  string
	Guest  bool
}

// Registry holds all registered authenticators
type Registry struct {
	mu             sync.RWMutex
	authenticators map[string]Authenticator
	enabled        map[string]bool
}

// NewRegistry creates a new authenticator registry
func NewRegistry() *Registry {
	return &Registry{
		authenticators: make(map[string]Authenticator),
		enabled:        make(map[string]bool),
	}
}

// Register adds an authenticator to the registry
func (r *Registry) Register(auth Authenticator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authenticators[auth.Name()] = auth
}

// Enable enables an authenticator by name
func (r *Registry) Enable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authenticators[name]; !ok {
		return fmt.Errorf("authenticator %q not found", name)
	}
	r.enabled[name] = true
	return nil
}

// Disable disables an authenticator by name
func (r *Registry) Disable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.enabled, name)
}

// Get returns an authenticator by name
func (r *Registry) Get(name string) (Authenticator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	auth, ok := r.authenticators[name]
	return auth, ok
}

// IsEnabled checks if an authenticator is enabled
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[name]
}

// Installed returns all installed authenticator names
func (r *Registry) Installed() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.authenticators))
	for name := range r.authenticators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Enabled returns all enabled authenticator names
func (r *Registry) Enabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.enabled))
	for name := range r.enabled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnableOnly enables exactly the named authenticators, disabling the rest.
func (r *Registry) EnableOnly(names []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		if _, ok := r.authenticators[name]; !ok {
			return fmt.Errorf("authenticator %q not found", name)
		}
	}
	r.enabled = make(map[string]bool, len(names))
	for _, name := range names {
		r.enabled[name] = true
	}
	return nil
}

// Lookup returns an authenticator only if it is installed and enabled.
func (r *Registry) Lookup(name string) (Authenticator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	auth, ok := r.authenticators[name]
	if !ok {
		return nil, fmt.Errorf("authenticator %q not found", name)
	}
	if !r.enabled[name] {
		return nil, fmt.Errorf("authenticator %q is not enabled", name)
	}
	return auth, nil
}
