package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/repository"
)

// AuthService handles registration, login and token validation
type AuthService struct {
	users       repository.UserRepository
	jwtSecret   string
	tokenExpiry time.Duration
	log         *logrus.Logger
}

func NewAuthService(users repository.UserRepository, jwtSecret string, tokenExpiry time.Duration, log *logrus.Logger) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenExpiry: tokenExpiry, log: log}
}

// Register creates a new user with a hashed password
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, validationErr("email", "must not be empty")
	}
	if len(password) < 8 {
		return nil, validationErr("password", "must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hashed)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a signed JWT
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenExpiry)),
	})
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return signed, nil
}

// ParseToken validates a JWT and returns the user ID it carries
func (s *AuthService) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("token has no subject: %w", err)
	}
	return sub, nil
}
