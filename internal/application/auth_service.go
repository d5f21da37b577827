package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/emoji-scheduler/internal/persistence"
)

// AuthService coordinates registration, login and token verification.
type AuthService struct {
	users          persistence.UserRepository
	tokens         *TokenManager
	hashPassword   PasswordHasher
	verifyPassword PasswordVerifier
	newID          func() string
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(users persistence.UserRepository, tokens *TokenManager) *AuthService {
	return NewAuthServiceWithLogger(users, tokens, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(users persistence.UserRepository, tokens *TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:          users,
		tokens:         tokens,
		hashPassword:   HashPassword,
		verifyPassword: VerifyPassword,
		newID:          NewRecordID,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Register creates a new account. A duplicate email surfaces as
// ErrAlreadyExists.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (result RegisterResult, err error) {
	if s == nil || s.users == nil {
		err = fmt.Errorf("auth service not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))

	logger := s.loggerWith(ctx, "Register", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "registration failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "registration succeeded", "user_id", result.UserID)
	}()

	if vErr := validateCredentials(email, params.Password); vErr.HasErrors() {
		err = vErr
		return
	}

	hash, hashErr := s.hashPassword(params.Password)
	if hashErr != nil {
		err = fmt.Errorf("failed to hash password: %w", hashErr)
		return
	}

	user := persistence.User{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: hash,
	}
	if err = s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			err = ErrAlreadyExists
		}
		return
	}

	result = RegisterResult{UserID: user.ID}
	return
}

// Authenticate validates credentials and issues an access token.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	if s == nil || s.users == nil || s.tokens == nil {
		err = fmt.Errorf("auth service not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))

	logger := s.loggerWith(ctx, "Authenticate", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "authentication succeeded", "user_id", result.UserID)
	}()

	if email == "" || params.Password == "" {
		err = ErrInvalidCredentials
		return
	}

	user, lookupErr := s.users.GetUserByEmail(ctx, email)
	if lookupErr != nil {
		if errors.Is(lookupErr, persistence.ErrNotFound) {
			err = ErrInvalidCredentials
			return
		}
		err = lookupErr
		return
	}

	if verifyErr := s.verifyPassword(user.PasswordHash, params.Password); verifyErr != nil {
		err = ErrInvalidCredentials
		return
	}

	token, issueErr := s.tokens.Issue(user.ID, user.Email)
	if issueErr != nil {
		err = issueErr
		return
	}

	result = AuthenticateResult{Token: token, UserID: user.ID, Email: user.Email}
	return
}

// VerifyToken parses an access token and resolves the principal it encodes.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (Principal, error) {
	if s == nil || s.tokens == nil {
		return Principal{}, fmt.Errorf("auth service not configured")
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Principal{}, err
	}
	return Principal{UserID: claims.UserID, Email: claims.Email}, nil
}

func validateCredentials(email, password string) *ValidationError {
	vErr := &ValidationError{}
	if email == "" {
		vErr.add("email", "email is required")
	} else if !strings.Contains(email, "@") {
		vErr.add("email", "email is invalid")
	}
	if password == "" {
		vErr.add("password", "password is required")
	} else if len(password) < 6 {
		vErr.add("password", "password must be at least 6 characters")
	}
	return vErr
}
