package service

import (
	"context"
	"log"
	"time"

	"github.com/yourusername/examine-api/internal/auth"
	jwtauth "github.com/yourusername/examine-api/pkg/auth"
)

// AdminService выдает токены администратора по общему секрету
type AdminService struct {
	authenticator auth.Authenticator
	tokens        *jwtauth.AdminTokenService
}

// NewAdminService создает сервис входа администратора
func NewAdminService(authenticator auth.Authenticator, tokens *jwtauth.AdminTokenService) *AdminService {
	return &AdminService{authenticator: authenticator, tokens: tokens}
}

// Login проверяет пароль и возвращает токен со сроком действия
func (s *AdminService) Login(ctx context.Context, password string) (string, time.Time, error) {
	if err := s.authenticator.Authenticate(ctx, password); err != nil {
		log.Printf("[AdminService] Неудачная попытка входа: %v", err)
		return "", time.Time{}, err
	}

	token, expiresAt, err := s.tokens.GenerateToken()
	if err != nil {
		return "", time.Time{}, err
	}
	log.Printf("[AdminService] Выдан токен администратора до %s", expiresAt.Format(time.RFC3339))
	return token, expiresAt, nil
}
