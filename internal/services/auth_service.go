package services

import (
	"context"
	"strings"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the identity persistence surface the auth service needs.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
}

type AuthService struct {
	Users    UserStore
	Secret   []byte
	TokenTTL time.Duration
}

func (s AuthService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return models.User{}, domain.ValidationError{Field: "username", Msg: "must not be empty"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "must be a valid address"}
	}
	if len(password) < 6 {
		return models.User{}, domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}

	return s.Users.Create(ctx, username, email, string(hash))
}

// Login verifies credentials and issues a bearer token. A missing user and a
// wrong password produce the same error so the response does not reveal which
// usernames exist.
func (s AuthService) Login(ctx context.Context, username, password string) (models.User, string, error) {
	invalid := domain.UnauthenticatedError{Msg: "invalid username or password"}

	user, err := s.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if domain.IsNotFound(err) {
			return models.User{}, "", invalid
		}
		return models.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", invalid
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.TokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return models.User{}, "", domain.InternalError{Msg: "failed to sign token", Err: err}
	}
	return user, signed, nil
}

// ParseToken resolves a bearer token back to the identity it was issued for.
func (s AuthService) ParseToken(tokenString string) (int64, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", domain.UnauthenticatedError{Msg: "invalid or expired token", Err: err}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", domain.UnauthenticatedError{Msg: "invalid token claims"}
	}

	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return 0, "", domain.UnauthenticatedError{Msg: "invalid token claims"}
	}
	username, _ := claims["username"].(string)
	return int64(rawID), username, nil
}
