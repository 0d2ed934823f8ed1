package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/internal/security"
)

var (
	// ErrUsernameTaken indicates the username uniqueness constraint was violated.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken indicates the email uniqueness constraint was violated.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials is returned for any authentication failure. It is
	// deliberately identical for unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound indicates the requested account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserHasRecords indicates the account still owns courses, enrollments
	// or submissions and cannot be deleted under the restrict policy.
	ErrUserHasRecords = errors.New("user has dependent records")
)

// AuthService exposes account and session use cases.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	Logout(ctx context.Context, claims security.Claims) error
	GetByID(ctx context.Context, id uint) (dto.UserResponse, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
	Delete(ctx context.Context, id uint) error
	PromoteToAdmin(ctx context.Context, username string) error
}

type authService struct {
	users     repository.UserRepository
	hasher    security.PasswordHasher
	tokens    *security.TokenManager
	denylist  *security.TokenDenylist
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService builds the account/session service.
func NewAuthService(users repository.UserRepository, hasher security.PasswordHasher, tokens *security.TokenManager, denylist *security.TokenDenylist, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		denylist:  denylist,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	role := strings.ToLower(strings.TrimSpace(payload.Role))
	if role == "" {
		role = models.RoleStudent
	}

	digest, err := s.hasher.Hash(payload.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Username:     strings.TrimSpace(payload.Username),
		Email:        strings.ToLower(strings.TrimSpace(payload.Email)),
		PasswordHash: digest,
		FullName:     strings.TrimSpace(payload.FullName),
		Role:         role,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, s.classifyDuplicate(ctx, user.Username)
		}

		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	return dto.NewUserResponse(user), nil
}

// classifyDuplicate decides which uniqueness constraint rejected the insert.
// The insert itself stays the atomic check; this lookup only refines the
// user-facing message.
func (s *authService) classifyDuplicate(ctx context.Context, username string) error {
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err == nil && taken {
		return ErrUsernameTaken
	}

	return ErrEmailTaken
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.authenticate(ctx, payload.Username, payload.Password)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	identity := security.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		FullName: user.FullName,
		IsAdmin:  user.IsAdmin,
	}

	token, _, err := s.tokens.Issue(identity)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

// authenticate matches the credentials against the stored digest and updates
// last_login on success. Every failure maps onto the same sentinel.
func (s *authService) authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}

		return models.User{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}

	if security.IsLegacyDigest(user.PasswordHash) {
		s.upgradeLegacyDigest(ctx, &user, password)
	}

	loginAt := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, loginAt); err != nil {
		return models.User{}, err
	}
	user.LastLogin = &loginAt

	s.logger.Info().Uint("user_id", user.ID).Msg("user authenticated")

	return user, nil
}

// upgradeLegacyDigest rehashes an imported SHA-256 digest with bcrypt after a
// successful legacy verification. Best effort: a failure leaves the old digest
// in place and the account still usable.
func (s *authService) upgradeLegacyDigest(ctx context.Context, user *models.User, password string) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to rehash legacy digest")
		return
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, digest); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to store upgraded digest")
		return
	}

	user.PasswordHash = digest
}

func (s *authService) Logout(ctx context.Context, claims security.Claims) error {
	if claims.ID == "" {
		return nil
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}

	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}

	s.logger.Info().Str("username", claims.Username).Msg("session revoked")

	return nil
}

func (s *authService) GetByID(ctx context.Context, id uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}

		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(users), nil
}

func (s *authService) Delete(ctx context.Context, id uint) error {
	if err := s.users.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrUserNotFound
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return ErrUserHasRecords
		}

		return err
	}

	s.logger.Info().Uint("user_id", id).Msg("user deleted")

	return nil
}

func (s *authService) PromoteToAdmin(ctx context.Context, username string) error {
	if err := s.users.SetAdmin(ctx, strings.TrimSpace(username)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}

		return err
	}

	s.logger.Info().Str("username", username).Msg("user promoted to admin")

	return nil
}
