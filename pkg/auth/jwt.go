package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// AdminRole — единственная роль, которую выдает сервис
const AdminRole = "admin"

const tokenIssuer = "examine-api"

// Ошибки проверки токена
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token is expired")
	ErrTokenSignature = errors.New("signature is invalid")
	ErrTokenInvalid   = errors.New("invalid token")
)

// AdminClaims содержит поля токена администратора
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminTokenService выпускает и проверяет токены администратора (HS256)
type AdminTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAdminTokenService создает сервис токенов
func NewAdminTokenService(secret string, ttl time.Duration) (*AdminTokenService, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("jwt secret must be at least 16 bytes")
	}
	// Default expiry if not set or invalid
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AdminTokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// GenerateToken выпускает токен администратора и возвращает его со сроком действия
func (s *AdminTokenService) GenerateToken() (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &AdminClaims{
		Role: AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   AdminRole,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken проверяет подпись, срок и роль токена
func (s *AdminTokenService) ParseToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				log.Printf("[JWT] Ошибка: Токен имеет неверный формат")
				return nil, ErrTokenMalformed
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				log.Printf("[JWT] Ошибка: Токен истек срок действия")
				return nil, ErrTokenExpired
			case ve.Errors&jwt.ValidationErrorSignatureInvalid != 0:
				log.Printf("[JWT] Ошибка: Неверная подпись токена")
				return nil, ErrTokenSignature
			}
		}
		log.Printf("[JWT] Ошибка при разборе токена: %v", err)
		return nil, ErrTokenInvalid
	}

	if !token.Valid || claims.Role != AdminRole || claims.Issuer != tokenIssuer {
		log.Printf("[JWT] Токен недействителен")
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
