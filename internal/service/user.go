package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AJVG007/gestor-tareas/internal/auth"
	"github.com/AJVG007/gestor-tareas/internal/domain"
	"github.com/AJVG007/gestor-tareas/internal/event"
	"github.com/AJVG007/gestor-tareas/internal/repository"
	apperrors "github.com/AJVG007/gestor-tareas/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// Login failures never disclose which part of the credentials was wrong, nor
// whether the account exists or is deactivated.
const loginFailedMessage = "invalid username or password"

// UserService implements the business logic for account and auth operations.
type UserService struct {
	userRepo   repository.UserRepository
	jwtManager *auth.JWTManager
	producer   *event.Producer
	logger     *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	jwtManager *auth.JWTManager,
	producer *event.Producer,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		producer:   producer,
		logger:     logger,
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Username string
	Password string
}

// UpdateProfileInput holds the parameters for updating a user's profile.
type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// Register creates a new user account with a hashed password. Username and
// email uniqueness violations come back as field-keyed validation errors.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	fields := map[string]string{}
	if input.Username == "" {
		fields["username"] = "This field is required."
	}
	if input.Email == "" {
		fields["email"] = "This field is required."
	}
	if input.Password == "" {
		fields["password"] = "This field is required."
	}
	if len(fields) > 0 {
		return nil, apperrors.ValidationFields(fields)
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login authenticates a user with username and password, returning tokens.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*domain.User, *domain.TokenPair, error) {
	fields := map[string]string{}
	if input.Username == "" {
		fields["username"] = "This field is required."
	}
	if input.Password == "" {
		fields["password"] = "This field is required."
	}
	if len(fields) > 0 {
		return nil, nil, apperrors.ValidationFields(fields)
	}

	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, nil, apperrors.Unauthorized(loginFailedMessage)
	}

	if !user.IsActive {
		return nil, nil, apperrors.Unauthorized(loginFailedMessage)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.Unauthorized(loginFailedMessage)
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, tokens, nil
}

// GetProfile retrieves a user by their ID.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return user, nil
}

// UpdateProfile updates a user's profile fields. An email already used by a
// different account is rejected with a field-keyed validation error.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}

	if input.Email != nil && *input.Email != user.Email {
		if *input.Email == "" {
			return nil, apperrors.InvalidInput("email must not be empty")
		}
		existing, err := s.userRepo.GetByEmail(ctx, *input.Email)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("check email uniqueness: %w", err)
		}
		if existing != nil && existing.ID != userID {
			return nil, apperrors.ValidationFields(map[string]string{
				"email": "A user with that email already exists.",
			})
		}
		user.Email = *input.Email
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user profile updated",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// generateTokenPair creates an access/refresh token pair. Tokens are stateless
// JWTs; nothing is persisted server-side.
func (s *UserService) generateTokenPair(user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// validatePassword checks the minimum length requirement.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.ValidationFields(map[string]string{
			"password": fmt.Sprintf("Password must be at least %d characters long.", minPasswordLength),
		})
	}
	return nil
}
