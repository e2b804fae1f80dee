package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/woopit/woopit-server/internal/app"
	"github.com/woopit/woopit-server/internal/cache"
	"github.com/woopit/woopit-server/internal/config"
	"github.com/woopit/woopit-server/internal/db"
	svcErr "github.com/woopit/woopit-server/internal/errors"
	"github.com/woopit/woopit-server/internal/server"
	"github.com/woopit/woopit-server/internal/service/auth"
)

func setupService(t *testing.T) (*auth.Service, *config.Config) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	cfg := config.New()
	cfg.Auth.JWTSecret = "test-secret"

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(gdb, cache.NewRedisCache(cfg), log, cfg)
	return auth.NewService(appCtx), cfg
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, cfg := setupService(t)

	user, err := svc.Register(ctx, auth.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Age:       30,
		Email:     "ada@test.com",
		Password:  "correct-horse",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	token, logged, err := svc.Login(ctx, "ada@test.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	// the issued token identifies the user
	userID, err := server.ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.Register(ctx, auth.RegisterInput{
		FirstName: "Ada", LastName: "L", Age: 30,
		Email: "ada@test.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ada@test.com", "battery-staple")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, _, err := svc.Login(ctx, "ghost@test.com", "whatever")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	in := auth.RegisterInput{
		FirstName: "Ada", LastName: "L", Age: 30,
		Email: "ada@test.com", Password: "correct-horse",
	}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	// the constraint violation must be translated so the error mapper can
	// answer 409 instead of a generic 500
	_, err = svc.Register(ctx, in)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Equal(t, http.StatusConflict, svcErr.Status(err))
}
