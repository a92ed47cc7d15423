// Package auth implements credential registration, login and session
// tokens. Passwords are bcrypt-hashed; sessions are HS256 JWTs carried
// in an http-only cookie or a bearer header.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/apperr"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/models"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/repository"
)

const tokenTTL = 24 * time.Hour

type Service struct {
	users     *repository.UserRepository
	jwtSecret []byte
	log       *zap.Logger
}

func NewService(users *repository.UserRepository, jwtSecret []byte, log *zap.Logger) *Service {
	return &Service{users: users, jwtSecret: jwtSecret, log: log}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required,min=3,max=60"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=40"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=40"`
}

// Register creates a new EMPLOYEE user. Name and email must both be
// unused.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	existing, err := s.users.GetByNameOrEmail(ctx, in.Name, in.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistence(err)
	}
	if existing != nil {
		return nil, apperr.Validation("a user with that name or email already exists")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     models.RoleEmployee,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.log.Error("failed to create user", zap.Error(err), zap.String("email", in.Email))
		return nil, apperr.Persistence(err)
	}
	s.log.Info("user registered", zap.String("email", in.Email))
	return user, nil
}

// Login verifies the credentials and returns a signed session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperr.Unauthenticated("invalid email or password")
		}
		return "", nil, apperr.Persistence(err)
	}

	if !ComparePasswords(in.Password, user.Password) {
		return "", nil, apperr.Unauthenticated("invalid email or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, apperr.Persistence(err)
	}
	s.log.Info("user logged in", zap.String("email", in.Email), zap.String("role", string(user.Role)))
	return token, user, nil
}

func (s *Service) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// ParseToken validates a session token and returns the user id and role
// it carries.
func (s *Service) ParseToken(tokenStr string) (uuid.UUID, models.UserRole, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", apperr.Unauthenticated("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", apperr.Unauthenticated("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", apperr.Unauthenticated("invalid user id in token")
	}
	role, _ := claims["role"].(string)
	return userID, models.UserRole(role), nil
}

// HashPassword hashes a plain text password with bcrypt cost 10.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePasswords reports whether password matches the stored hash.
func ComparePasswords(password, passwordHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}
