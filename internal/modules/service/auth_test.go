package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/WalidElHadhri/PDS/internal/config"
	"github.com/WalidElHadhri/PDS/internal/modules/model"
	"github.com/WalidElHadhri/PDS/internal/pkg/utils/secrets"
	"github.com/WalidElHadhri/PDS/internal/pkg/utils/tokens"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			TokenTTLMinutes: 60,
			PasswordPepper:  "pepper",
		},
	}
}

func newAuthServiceForTest(t *testing.T, users *MockUserRepo) (AuthService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewAuthService(users, rdb, testAuthConfig(), zap.NewNop()), mr
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration", func(t *testing.T) {
		mockUsers := &MockUserRepo{}
		mockUsers.On("GetByEmail", ctx, "walid@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockUsers.On("Create", ctx, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) {
				u := args.Get(1).(*model.User)
				u.ID = uuid.New()
			}).Return(nil)

		svc, _ := newAuthServiceForTest(t, mockUsers)
		out, err := svc.Register(ctx, RegisterInput{
			Username: "walid",
			Email:    " Walid@Example.com ",
			Password: "secret123",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, out.Token)
		// email is normalized before storage
		assert.Equal(t, "walid@example.com", out.User.Email)
		assert.NotEmpty(t, out.User.PasswordPHC)
		assert.NotContains(t, out.User.PasswordPHC, "secret123")
		mockUsers.AssertExpectations(t)
	})

	t.Run("email already taken", func(t *testing.T) {
		existing := newTestUser("walid")

		mockUsers := &MockUserRepo{}
		mockUsers.On("GetByEmail", ctx, existing.Email).Return(existing, nil)

		svc, _ := newAuthServiceForTest(t, mockUsers)
		out, err := svc.Register(ctx, RegisterInput{
			Username: "walid",
			Email:    existing.Email,
			Password: "secret123",
		})

		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.Nil(t, out)
		mockUsers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("concurrent duplicate caught on insert", func(t *testing.T) {
		mockUsers := &MockUserRepo{}
		mockUsers.On("GetByEmail", ctx, "walid@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockUsers.On("Create", ctx, mock.AnythingOfType("*model.User")).
			Return(errors.New(`duplicate key value violates unique constraint "idx_users_email"`))

		svc, _ := newAuthServiceForTest(t, mockUsers)
		out, err := svc.Register(ctx, RegisterInput{
			Username: "walid",
			Email:    "walid@example.com",
			Password: "secret123",
		})

		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.Nil(t, out)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	phc, err := secrets.HashPassword("secret123", "pepper")
	assert.NoError(t, err)

	stored := newTestUser("walid")
	stored.PasswordPHC = phc

	t.Run("successful login", func(t *testing.T) {
		mockUsers := &MockUserRepo{}
		mockUsers.On("GetByEmail", ctx, stored.Email).Return(stored, nil)

		svc, _ := newAuthServiceForTest(t, mockUsers)
		out, err := svc.Login(ctx, LoginInput{Email: stored.Email, Password: "secret123"})

		assert.NoError(t, err)
		assert.NotEmpty(t, out.Token)

		claims, err := tokens.Parse("test-secret", out.Token)
		assert.NoError(t, err)
		uid, err := claims.UserID()
		assert.NoError(t, err)
		assert.Equal(t, stored.ID, uid)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockUsers := &MockUserRepo{}
		mockUsers.On("GetByEmail", ctx, stored.Email).Return(stored, nil)

		svc, _ := newAuthServiceForTest(t, mockUsers)
		out, err := svc.Login(ctx, LoginInput{Email: stored.Email, Password: "wrong"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, out)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockUsers := &MockUserRepo{}
		mockUsers.On("GetByEmail", ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		svc, _ := newAuthServiceForTest(t, mockUsers)
		out, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret123"})

		// the same error as a bad password, the caller cannot probe for accounts
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, out)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the token until expiry", func(t *testing.T) {
		mockUsers := &MockUserRepo{}
		svc, mr := newAuthServiceForTest(t, mockUsers)

		claims := &tokens.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.NewString(),
				ID:        uuid.NewString(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}

		assert.NoError(t, svc.Logout(ctx, claims))
		assert.True(t, mr.Exists(tokens.RevocationKey(claims.ID)))

		ttl := mr.TTL(tokens.RevocationKey(claims.ID))
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Hour)
	})

	t.Run("expired token is a no-op", func(t *testing.T) {
		mockUsers := &MockUserRepo{}
		svc, mr := newAuthServiceForTest(t, mockUsers)

		claims := &tokens.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.NewString(),
				ID:        uuid.NewString(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}

		assert.NoError(t, svc.Logout(ctx, claims))
		assert.False(t, mr.Exists(tokens.RevocationKey(claims.ID)))
	})
}
