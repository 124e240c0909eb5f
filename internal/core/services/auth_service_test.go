package services

import (
	"context"
	"strings"
	"testing"

	"payments-api/internal/adapters/persistence/models"
	"payments-api/internal/adapters/persistence/repositories"
	"payments-api/internal/config"
	"payments-api/internal/core/domain"
	"payments-api/internal/pkg/jwt"
	"payments-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *kickCounter, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	kicks := &kickCounter{}
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", AccessTokenMins: 15}}
	return NewAuthService(repositories.NewUserRepository(db), kicks, cfg), kicks, db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, kicks, db := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, &RegisterInput{Username: " alice ", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, int32(1), kicks.n.Load())

	var welcome models.OutboxEvent
	require.NoError(t, db.Where("kind = ?", string(domain.KindUserRegistered)).First(&welcome).Error)
	assert.Equal(t, "alice@example.com", welcome.Recipient)
	assert.Contains(t, welcome.Body, "Hello alice")

	user, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)

	login, err := svc.Login(ctx, &LoginInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", login.User.Username)

	_, err = svc.Login(ctx, &LoginInput{Username: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginInput{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterInput{Username: "alice", Email: "other@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Register(ctx, &RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthService(t)

	inputs := []*RegisterInput{
		{Username: "", Email: "a@example.com", Password: "password123"},
		{Username: "al", Email: "a@example.com", Password: "password123"},
		{Username: "alice", Email: "not-an-email", Password: "password123"},
		{Username: "alice", Email: "a@example.com", Password: "short"},
		{Username: "alice", Email: "a@example.com", Password: strings.Repeat("p", 73)},
	}
	for _, in := range inputs {
		_, err := svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	orphan, err := jwt.GenerateAccessToken(999, "ghost", "USER", "test-secret", 15)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, orphan)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	expired, err := jwt.GenerateAccessToken(1, "ghost", "USER", "test-secret", -1)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
