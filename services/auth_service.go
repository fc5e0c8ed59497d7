package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"houseshow-backend/models"
)

type RegisterInput struct {
	DisplayName string      `json:"display_name" validate:"required,max=255"`
	Email       string      `json:"email" validate:"required,email,max=150"`
	Password    string      `json:"password" validate:"required,min=8,max=72"`
	Role        models.Role `json:"role" validate:"required,oneof=artist host"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenIssuer interface {
	GenerateToken(userID string, role string) (string, error)
}

type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	log    *zap.SugaredLogger
}

func NewAuthService(users UserStore, tokens TokenIssuer, log *zap.SugaredLogger) *AuthService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Register creates an artist or host account. Admins are only seeded.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if verr := validateInput(in); !verr.empty() {
		return nil, verr
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user, err := NewUser(in.DisplayName, in.Email, in.Password, in.Role)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Infow("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login checks the password and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, *models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if verr := validateInput(in); !verr.empty() {
		return "", nil, verr
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// NewUser builds a user with a bcrypt-hashed password.
func NewUser(displayName, email, password string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &models.User{
		ID:           uuid.NewString(),
		DisplayName:  displayName,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
