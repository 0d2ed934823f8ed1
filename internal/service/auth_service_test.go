package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/internal/security"
)

func serviceTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))
	return db
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func newAuthFixture(t *testing.T) (AuthService, repository.UserRepository, *security.TokenManager, *security.TokenDenylist, *miniredis.Miniredis) {
	t.Helper()

	db := serviceTestDB(t, &models.User{})
	users := repository.NewUserRepository(db)

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	hasher := &security.BcryptHasher{Cost: bcrypt.MinCost}
	tokens := security.NewTokenManager("test-secret", time.Hour)
	denylist := security.NewTokenDenylist(redis.NewClient(&redis.Options{Addr: mini.Addr()}))

	svc := NewAuthService(users, hasher, tokens, denylist, testValidator(), zerolog.Nop())

	return svc, users, tokens, denylist, mini
}

func registerRequest(username string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		FullName:        "Test " + username,
		Role:            models.RoleStudent,
	}
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	svc, _, tokens, _, _ := newAuthFixture(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)
	require.Equal(t, "alice", created.Username)
	require.Equal(t, models.RoleStudent, created.Role)
	require.Nil(t, created.LastLogin)

	response, err := svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)
	require.NotNil(t, response.User.LastLogin)

	claims, err := tokens.Parse(response.Token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, created.ID, claims.Identity().UserID)
}

func TestAuthServiceRegisterRejectsShortPassword(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(t)

	payload := registerRequest("bob")
	payload.Password = "123"
	payload.ConfirmPassword = "123"

	_, err := svc.Register(context.Background(), payload)
	require.Error(t, err)
	require.IsType(t, validator.ValidationErrors{}, err)
}

func TestAuthServiceRegisterRejectsMismatchedConfirmation(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(t)

	payload := registerRequest("bob")
	payload.ConfirmPassword = "different"

	_, err := svc.Register(context.Background(), payload)
	require.Error(t, err)
}

func TestAuthServiceRegisterDuplicateConflicts(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("alice"))
	require.ErrorIs(t, err, ErrUsernameTaken)

	sameEmail := registerRequest("alice2")
	sameEmail.Email = "alice@example.com"
	_, err = svc.Register(ctx, sameEmail)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthServiceLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "secret123"})
	_, wrongErr := svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "wrong-password"})

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthServiceUpgradesLegacyDigestOnLogin(t *testing.T) {
	svc, users, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	imported := models.User{
		Username:     "legacy",
		Email:        "legacy@example.com",
		PasswordHash: security.LegacyDigest("old-password"),
		FullName:     "Imported Account",
		Role:         models.RoleStudent,
	}
	require.NoError(t, users.Create(ctx, &imported))

	_, err := svc.Login(ctx, dto.LoginRequest{Username: "legacy", Password: "old-password"})
	require.NoError(t, err)

	stored, err := users.GetByUsername(ctx, "legacy")
	require.NoError(t, err)
	require.False(t, security.IsLegacyDigest(stored.PasswordHash), "digest should be rehashed after legacy login")
	require.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))

	// The upgraded digest keeps working.
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "legacy", Password: "old-password"})
	require.NoError(t, err)
}

func TestAuthServiceLogoutRevokesSession(t *testing.T) {
	svc, _, tokens, denylist, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	response, err := svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	claims, err := tokens.Parse(response.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	revoked, err := denylist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestAuthServicePromoteToAdmin(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	require.NoError(t, svc.PromoteToAdmin(ctx, "alice"))

	stored, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, stored.IsAdmin)

	require.ErrorIs(t, svc.PromoteToAdmin(ctx, "ghost"), ErrUserNotFound)
}

func TestAuthServiceDeleteTranslatesErrors(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrUserNotFound)
}

func TestAuthServiceDeleteBlockedByDependents(t *testing.T) {
	users := &stubUserRepo{deleteErr: gorm.ErrForeignKeyViolated}
	svc := NewAuthService(users, security.NewHasher(), security.NewTokenManager("s", time.Hour), nil, testValidator(), zerolog.Nop())

	err := svc.Delete(context.Background(), 1)
	require.ErrorIs(t, err, ErrUserHasRecords)
}

type stubUserRepo struct {
	deleteErr error
}

func (s *stubUserRepo) Create(context.Context, *models.User) error { return nil }
func (s *stubUserRepo) GetByID(context.Context, uint) (models.User, error) {
	return models.User{}, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) GetByUsername(context.Context, string) (models.User, error) {
	return models.User{}, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) List(context.Context) ([]models.User, error)          { return nil, nil }
func (s *stubUserRepo) Delete(context.Context, uint) error                   { return s.deleteErr }
func (s *stubUserRepo) UpdateLastLogin(context.Context, uint, time.Time) error { return nil }
func (s *stubUserRepo) UpdatePasswordHash(context.Context, uint, string) error { return nil }
func (s *stubUserRepo) SetAdmin(context.Context, string) error               { return nil }
func (s *stubUserRepo) ExistsByUsername(context.Context, string) (bool, error) {
	return false, nil
}
func (s *stubUserRepo) Count(context.Context) (int64, error) { return 0, nil }
