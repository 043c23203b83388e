package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yourusername/examine-api/internal/pkg/errors"
)

func TestSharedSecretAuthenticator_PlainPassword(t *testing.T) {
	a, err := NewSharedSecretAuthenticator("", "s3cret-pass")
	require.NoError(t, err)

	assert.NoError(t, a.Authenticate(context.Background(), "s3cret-pass"))
	assert.ErrorIs(t, a.Authenticate(context.Background(), "wrong"), apperrors.ErrUnauthorized)
	assert.ErrorIs(t, a.Authenticate(context.Background(), ""), apperrors.ErrUnauthorized)
}

func TestSharedSecretAuthenticator_Hash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("from-hash"), bcrypt.MinCost)
	require.NoError(t, err)

	a, err := NewSharedSecretAuthenticator(string(hash), "ignored-plain")
	require.NoError(t, err)

	assert.NoError(t, a.Authenticate(context.Background(), "from-hash"))
	assert.ErrorIs(t, a.Authenticate(context.Background(), "ignored-plain"), apperrors.ErrUnauthorized, "хеш имеет приоритет")
}

func TestNewSharedSecretAuthenticator_Invalid(t *testing.T) {
	_, err := NewSharedSecretAuthenticator("not-a-bcrypt-hash", "")
	assert.Error(t, err)

	_, err = NewSharedSecretAuthenticator("", "")
	assert.Error(t, err)
}
