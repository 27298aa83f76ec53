package services

import (
	"context"
	"testing"
	"time"

	"taskboard/models"
	"taskboard/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"valid", RegisterRequest{Name: "Carol", Email: "Carol@Example.com ", Password: "pw"}, nil},
		{"duplicate email", RegisterRequest{Name: "Alice 2", Email: "alice@example.com", Password: "pw"}, models.ErrDuplicateEmail},
		{"missing name", RegisterRequest{Email: "x@example.com", Password: "pw"}, models.ErrValidation},
		{"bad email", RegisterRequest{Name: "X", Email: "not-an-email", Password: "pw"}, models.ErrValidation},
		{"missing password", RegisterRequest{Name: "X", Email: "x@example.com"}, models.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			result, err := env.auth.Register(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, result.Token)
			assert.Equal(t, "carol@example.com", result.User.Email)
			assert.Equal(t, models.RoleUser, result.User.Role)
			assert.Empty(t, result.User.Password)

			stored, err := env.members.FindByEmail(ctx, "carol@example.com")
			require.NoError(t, err)
			assert.NotEqual(t, "pw", stored.Password)
		})
	}
}

func TestAuthService_RegisterRejectsBlacklistedPassword(t *testing.T) {
	env := newTestEnv(t)
	env.auth.SetPasswordBlacklist(utils.PasswordBlacklist{"123456": true})

	_, err := env.auth.Register(context.Background(), RegisterRequest{Name: "Carol", Email: "carol@example.com", Password: "123456"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = env.members.FindByEmail(context.Background(), "carol@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, wrongPassword := env.auth.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "nope"})
	_, unknownEmail := env.auth.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "password"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.ErrorIs(t, wrongPassword, models.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, models.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_LoginLegacyMemberWithoutDigest(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	require.NoError(t, env.members.Create(ctx, &models.Member{Name: "Legacy", Email: "legacy@example.com"}))

	_, err := env.auth.Login(ctx, LoginRequest{Email: "legacy@example.com", Password: ""})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthService_LoginAndResolveSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	result, err := env.auth.Login(ctx, LoginRequest{Email: "ALICE@example.com", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, env.alice.ID, result.User.ID)

	claims, err := env.auth.ResolveSession(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, env.alice.ID.Hex(), claims.MemberID)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthService_ResolveSessionRejects(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	token, err := env.jwt.GenerateToken(env.alice)
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := env.auth.ResolveSession(ctx, "")
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := env.auth.ResolveSession(ctx, "not.a.token")
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService("other-secret")
		forged, err := other.GenerateToken(env.admin)
		require.NoError(t, err)
		_, err = env.auth.ResolveSession(ctx, forged)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("expired", func(t *testing.T) {
		issued := NewJWTService("test-secret")
		issued.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }
		old, err := issued.GenerateToken(env.alice)
		require.NoError(t, err)
		_, err = env.auth.ResolveSession(ctx, old)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("revoked after logout", func(t *testing.T) {
		claims, err := env.auth.ResolveSession(ctx, token)
		require.NoError(t, err)

		require.NoError(t, env.auth.Logout(ctx, claims))

		_, err = env.auth.ResolveSession(ctx, token)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	member, err := env.auth.Me(ctx, claimsFor(env.bob))
	require.NoError(t, err)
	assert.Equal(t, "Bob", member.Name)
	assert.Empty(t, member.Password)

	require.NoError(t, env.members.Delete(ctx, env.bob.ID))
	_, err = env.auth.Me(ctx, claimsFor(env.bob))
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = env.auth.Me(ctx, nil)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestRequireRole(t *testing.T) {
	admin := &models.Claims{MemberID: "a", Role: models.RoleAdmin}
	user := &models.Claims{MemberID: "u", Role: models.RoleUser}

	assert.NoError(t, RequireRole(admin, models.RoleAdmin))
	assert.ErrorIs(t, RequireRole(nil, models.RoleAdmin), models.ErrUnauthenticated)

	err := RequireRole(user, models.RoleAdmin)
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.NotErrorIs(t, err, models.ErrUnauthenticated)
}
