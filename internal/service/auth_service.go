package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mediscanner/internal/auth"
	apperrors "mediscanner/internal/errors"
	"mediscanner/internal/model"
	"mediscanner/internal/repository"
)

const bcryptCost = 10

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name            string
	Email           string
	Age             int
	MobileNumber    string
	Photo           string
	Password        string
	ConfirmPassword string
}

// AuthService handles registration, login, logout, and token verification.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, tokenString string) error
	Authenticate(ctx context.Context, tokenString string) (*auth.Claims, error)
	ResetPassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	validator   *CredentialValidator
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	validator *CredentialValidator,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		validator:   validator,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
	}
}

// Register validates the input, enforces email/mobile uniqueness, and creates
// the user with a bcrypt password hash.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := s.validator.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateMobile(input.MobileNumber); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateProfile(input.Name, input.Age); err != nil {
		return nil, err
	}
	if err := s.validator.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if input.Password != input.ConfirmPassword {
		return nil, apperrors.NewValidationError("passwords do not match")
	}

	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}

	existing, err = s.userRepo.FindByMobile(ctx, input.MobileNumber)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateMobile
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("check mobile uniqueness: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		Age:          input.Age,
		MobileNumber: input.MobileNumber,
		Photo:        input.Photo,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and opens a tracked session for the new token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, tokenID, err := s.jwtService.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	session := &model.UserSession{
		UserID:    user.ID,
		TokenID:   tokenID,
		LoginTime: time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	return token, user, nil
}

// Logout revokes the token for its remaining life and closes the session.
func (s *authService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtService.Verify(tokenString)
	if err != nil {
		return err
	}

	if err := s.tokenStore.Revoke(ctx, claims.ID, s.jwtService.Remaining(claims)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	// A session that is already closed is not an error; the token is revoked
	// either way.
	if _, err := s.sessionRepo.CloseByTokenID(ctx, claims.ID); err != nil {
		return err
	}
	return nil
}

// Authenticate verifies a token's signature, expiry, and revocation status.
// The three failure kinds stay distinct.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*auth.Claims, error) {
	claims, err := s.jwtService.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		// Redis being down must not let a revoked token through.
		return nil, fmt.Errorf("%w: check revocation: %v", apperrors.ErrUpstream, err)
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}

	// The session record is the durable source of truth; a token whose
	// session is closed stays rejected even if the blacklist entry is lost.
	session, err := s.sessionRepo.FindActiveByTokenID(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: check session: %v", apperrors.ErrUpstream, err)
	}
	if session == nil {
		return nil, apperrors.ErrTokenRevoked
	}

	return claims, nil
}

// ResetPassword replaces the user's password after verifying the current one
// and checking the new one against the policy.
func (s *authService) ResetPassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	if err := s.validator.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword))
}
