// Package auth проверяет учетные данные администратора.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yourusername/examine-api/internal/pkg/errors"
)

// Authenticator проверяет секрет администратора
type Authenticator interface {
	Authenticate(ctx context.Context, secret string) error
}

// SharedSecretAuthenticator сверяет пароль с bcrypt-хешем общего секрета
type SharedSecretAuthenticator struct {
	hash []byte
}

// NewSharedSecretAuthenticator принимает готовый bcrypt-хеш или, если его нет,
// хеширует открытый пароль при старте
func NewSharedSecretAuthenticator(passwordHash, plain string) (*SharedSecretAuthenticator, error) {
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
		return &SharedSecretAuthenticator{hash: []byte(passwordHash)}, nil
	}
	if plain == "" {
		return nil, fmt.Errorf("admin password or password hash is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &SharedSecretAuthenticator{hash: hash}, nil
}

// Authenticate возвращает ErrUnauthorized при неверном пароле
func (a *SharedSecretAuthenticator) Authenticate(ctx context.Context, secret string) error {
	if secret == "" {
		return fmt.Errorf("%w: password is required", apperrors.ErrUnauthorized)
	}
	err := bcrypt.CompareHashAndPassword(a.hash, []byte(secret))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("%w: invalid password", apperrors.ErrUnauthorized)
	}
	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}
