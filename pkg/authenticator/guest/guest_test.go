package guest

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/footprint/pkg/authenticator"
)

func TestAuthenticate(t *testing.T) {
	auth := New()
	assert.Equal(t, "guest", auth.Name())

	first, err := auth.Authenticate(context.Background(), authenticator.AuthenticatorInput{})
	require.NoError(t, err)
	second, err := auth.Authenticate(context.Background(), authenticator.AuthenticatorInput{})
	require.NoError(t, err)

	assert.True(t, first.Guest)
	assert.True(t, strings.HasPrefix(first.UserID, "guest-"))
	assert.Equal(t, first.UserID, first.Login)
	_, err = uuid.Parse(strings.TrimPrefix(first.UserID, "guest-"))
	assert.NoError(t, err)
	assert.NotEqual(t, first.UserID, second.UserID)

	assert.NoError(t, auth.Status(context.Background()))
}
