package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"grievanceportal/backend/internal/apperr"
	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"
	"grievanceportal/backend/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserStore is the part of storage the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveTelegramLinkCode(ctx context.Context, code, userID string, ttl time.Duration) error
}

type Service struct {
	users  UserStore
	tokens *TokenIssuer
	logger *zap.Logger
}

func NewService(users UserStore, tokens *TokenIssuer, logger *zap.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

// Account holds the profile fields common to every account.
type Account struct {
	Email           string  `json:"email" validate:"required,email,max=254"`
	Password        string  `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName        string  `json:"full_name" validate:"notblank,max=200"`
	InstitutionID   string  `json:"institution_id" validate:"notblank,max=64"`
	Department      *string `json:"department" validate:"omitempty,max=200"`
	Language        string  `json:"language" validate:"omitempty,oneof=en uk"`
}

type RegisterInput struct {
	Account
	Role string `json:"role" validate:"required,oneof=Student Faculty"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a student or faculty account and logs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	role, _ := models.ParseRole(in.Role)
	user, err := s.create(ctx, in.Account, role)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateAdmin creates an administrator account. It is only reachable from
// the operator CLI.
func (s *Service) CreateAdmin(ctx context.Context, in Account) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.create(ctx, in, models.RoleAdmin)
}

func (s *Service) create(ctx context.Context, in Account, role models.Role) (*models.User, error) {
	user := &models.User{
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Role:          role,
		FullName:      strings.TrimSpace(in.FullName),
		InstitutionID: strings.TrimSpace(in.InstitutionID),
		Department:    in.Department,
		Language:      in.Language,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}

	err := s.users.CreateUser(ctx, user)
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, apperr.Conflict("email already registered")
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// Login checks credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(in.Email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Unauthenticated("invalid email or password")
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if err := user.CheckPassword(in.Password); err != nil {
		return nil, apperr.Unauthenticated("invalid email or password")
	}
	return s.issue(user)
}

func (s *Service) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, apperr.Unauthenticated("user not authenticated")
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Unauthenticated("user no longer exists")
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return user, nil
}

// TelegramLinkCode issues a short single-use code the user sends to the
// bot as "/start <code>".
func (s *Service) TelegramLinkCode(ctx context.Context, userID string) (string, error) {
	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:config.TelegramLinkLength]
	if err := s.users.SaveTelegramLinkCode(ctx, code, userID, config.TelegramLinkTTL); err != nil {
		return "", apperr.Persistence(err)
	}
	return code, nil
}
