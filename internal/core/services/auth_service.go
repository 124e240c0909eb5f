package services

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"

	"payments-api/internal/adapters/persistence/repositories"
	"payments-api/internal/config"
	"payments-api/internal/core/domain"
	"payments-api/internal/pkg/jwt"
	"payments-api/internal/pkg/password"
)

// AuthService is the identity provider: it registers users, checks
// credentials and resolves bearer tokens to users.
type AuthService struct {
	userRepo repositories.UserRepository
	outbox   Kicker
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, outbox Kicker, cfg *config.Config) *AuthService {
	if outbox == nil {
		outbox = nopKicker{}
	}
	return &AuthService{
		userRepo: userRepo,
		outbox:   outbox,
		cfg:      cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"-"`
}

// Validate checks registration fields
func (in *RegisterInput) Validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	switch {
	case in.Username == "":
		return domain.NewValidationError("username", "is required")
	case len(in.Username) < 3 || len(in.Username) > 50:
		return domain.NewValidationError("username", "must be between 3 and 50 characters")
	case in.Email == "":
		return domain.NewValidationError("email", "is required")
	case !validEmail(in.Email):
		return domain.NewValidationError("email", "is not a valid address")
	case in.Password == "":
		return domain.NewValidationError("password", "is required")
	case !password.ValidatePassword(in.Password):
		return domain.NewValidationError("password", "must be at least 8 characters")
	case password.TooLong(in.Password):
		return domain.NewValidationError("password", "must be at most 72 bytes")
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// Register registers a new user and queues the welcome email
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	// 1. Validate input
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// 2. Check if username already exists
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	// 3. Check if email already exists
	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	// 4. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 5. Create user with welcome notification
	user, err := s.userRepo.Create(ctx, &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
	}, func(u *domain.User) []*domain.OutboxEvent {
		return []*domain.OutboxEvent{WelcomeNotification(u)}
	})
	if err != nil {
		return nil, err
	}
	s.outbox.Kick()

	// 6. Generate token
	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s", user.Username)

	return &AuthResponse{Token: token, User: user}, nil
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, domain.NewValidationError("username", "is required")
	}
	if input.Password == "" {
		return nil, domain.NewValidationError("password", "is required")
	}

	// 1. Find user by username
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password
	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Generate token
	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)

	return &AuthResponse{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to its user. A token whose
// subject no longer exists fails with ErrUserNotFound.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := jwt.ValidateAccessToken(token, s.cfg.JWT.Secret)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	return s.userRepo.GetByID(ctx, claims.UserID)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	return jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		string(user.Role),
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
}
