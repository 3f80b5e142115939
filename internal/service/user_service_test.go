package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/cache"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/queue"
	"github.com/iliyamo/storefront/internal/request"
)

func register(t *testing.T, f *fixture, email string) string {
	t.Helper()
	res, err := f.users.Register(context.Background(), "", &request.Register{
		Name: "Alice", Email: email, Password: "secret1",
	})
	require.NoError(t, err)
	return res.Token.Token
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.users.Register(ctx, "", &request.Register{
		Name: "  Alice ", Email: "Alice@Example.com", Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, "Alice", res.User.Name)
	require.Equal(t, "alice@example.com", res.User.Email)
	require.Equal(t, model.RoleCustomer, res.User.Role)

	p, err := f.tokens.Verify(ctx, res.Token.Token)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, p.ID)
	require.Equal(t, model.RoleCustomer, p.Role)

	hash := f.userStore.PasswordHash(res.User.ID)
	require.NotEmpty(t, hash)
	require.NotEqual(t, "secret1", hash)

	ev := f.events.last()
	require.Equal(t, "user", ev.Entity)
	require.Equal(t, queue.ActionCreated, ev.Action)
	require.Equal(t, res.User.ID, ev.EntityID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	register(t, f, "bob@example.com")

	_, err := f.users.Register(context.Background(), "", &request.Register{
		Name: "Bobby", Email: "BOB@example.com", Password: "secret1",
	})
	require.True(t, apperr.Is(err, apperr.Conflict))
	require.Equal(t, "Email is already in use. Please try a different email.", apperr.Message(err))
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Register(context.Background(), "", &request.Register{Name: "Al", Email: "x", Password: "1"})
	require.True(t, apperr.Is(err, apperr.ValidationFailed))
	require.Len(t, apperr.FieldsOf(err), 3)
}

func TestRegisterAdminNeedsAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req := func() *request.Register {
		return &request.Register{Name: "Root", Email: "root@example.com", Password: "secret1", Role: model.RoleAdmin}
	}

	_, err := f.users.Register(ctx, "", req())
	require.True(t, apperr.Is(err, apperr.Forbidden))

	_, err = f.users.Register(ctx, f.token(t, 5, model.RoleCustomer), req())
	require.True(t, apperr.Is(err, apperr.Forbidden))

	res, err := f.users.Register(ctx, f.token(t, 1, model.RoleAdmin), req())
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, res.User.Role)
	require.Equal(t, uint64(1), f.events.last().ActorID)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register(t, f, "carol@example.com")

	res, err := f.users.Login(ctx, &request.Login{Email: "Carol@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "carol@example.com", res.User.Email)
	_, err = f.tokens.Verify(ctx, res.Token.Token)
	require.NoError(t, err)

	_, err = f.users.Login(ctx, &request.Login{Email: "carol@example.com", Password: "wrong-pass"})
	require.True(t, apperr.Is(err, apperr.Unauthorized))
	require.Equal(t, "Invalid email or password.", apperr.Message(err))

	_, err = f.users.Login(ctx, &request.Login{Email: "nobody@example.com", Password: "secret1"})
	require.True(t, apperr.Is(err, apperr.Unauthorized))
	require.Equal(t, "Invalid email or password.", apperr.Message(err))
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	token := register(t, f, "dave@example.com")

	require.NoError(t, f.users.Logout(ctx, token))

	_, err := f.tokens.Verify(ctx, token)
	require.True(t, apperr.Is(err, apperr.Unauthorized))

	err = f.users.Logout(ctx, token)
	require.True(t, apperr.Is(err, apperr.Unauthorized))

	err = f.users.Logout(ctx, "")
	require.True(t, apperr.Is(err, apperr.Unauthorized))
}

func TestGetUserOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := register(t, f, "alice@example.com")
	register(t, f, "bob@example.com")

	u, err := f.users.GetUser(ctx, alice, 1)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", u.Email)

	_, err = f.users.GetUser(ctx, alice, 2)
	require.True(t, apperr.Is(err, apperr.Forbidden))

	_, err = f.users.GetUser(ctx, "", 2)
	require.True(t, apperr.Is(err, apperr.Unauthorized))

	u, err = f.users.GetUser(ctx, f.token(t, 99, model.RoleAdmin), 2)
	require.NoError(t, err)
	require.Equal(t, "bob@example.com", u.Email)
}

func TestListUsersAdminOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := register(t, f, "alice@example.com")
	register(t, f, "bob@example.com")

	_, err := f.users.ListUsers(ctx, alice)
	require.True(t, apperr.Is(err, apperr.Forbidden))

	all, err := f.users.ListUsers(ctx, f.token(t, 99, model.RoleAdmin))
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "bob@example.com", all[0].Email)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := register(t, f, "alice@example.com")
	register(t, f, "bob@example.com")

	t.Run("self update is reflected by get", func(t *testing.T) {
		_, err := f.users.UpdateUser(ctx, alice, &request.UpdateUser{ID: 1, Name: strPtr("Alicia")})
		require.NoError(t, err)
		u, err := f.users.GetUser(ctx, alice, 1)
		require.NoError(t, err)
		require.Equal(t, "Alicia", u.Name)
	})

	t.Run("self role change is forbidden", func(t *testing.T) {
		role := model.RoleAdmin
		_, err := f.users.UpdateUser(ctx, alice, &request.UpdateUser{ID: 1, Role: &role})
		require.True(t, apperr.Is(err, apperr.Forbidden))
		require.Equal(t, "Only admins can update user roles.", apperr.Message(err))
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		_, err := f.users.UpdateUser(ctx, alice, &request.UpdateUser{ID: 2, Name: strPtr("Robert")})
		require.True(t, apperr.Is(err, apperr.Forbidden))
	})

	t.Run("empty update", func(t *testing.T) {
		_, err := f.users.UpdateUser(ctx, alice, &request.UpdateUser{ID: 1})
		require.True(t, apperr.Is(err, apperr.ValidationFailed))
		require.Equal(t, "No valid fields to update.", apperr.Message(err))
	})

	t.Run("admin changes role", func(t *testing.T) {
		role := model.RoleSeller
		u, err := f.users.UpdateUser(ctx, f.token(t, 99, model.RoleAdmin), &request.UpdateUser{ID: 2, Role: &role})
		require.NoError(t, err)
		require.Equal(t, model.RoleSeller, u.Role)
	})

	t.Run("email taken", func(t *testing.T) {
		_, err := f.users.UpdateUser(ctx, alice, &request.UpdateUser{ID: 1, Email: strPtr("bob@example.com")})
		require.True(t, apperr.Is(err, apperr.Conflict))
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := f.users.UpdateUser(ctx, f.token(t, 99, model.RoleAdmin), &request.UpdateUser{ID: 50, Name: strPtr("Ghost")})
		require.True(t, apperr.Is(err, apperr.UpdateFailed))
	})
}

func TestUpdatePasswordIsRehashed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	token := register(t, f, "erin@example.com")
	before := f.userStore.PasswordHash(1)

	_, err := f.users.UpdateUser(ctx, token, &request.UpdateUser{ID: 1, Password: strPtr("new-secret")})
	require.NoError(t, err)
	require.NotEqual(t, before, f.userStore.PasswordHash(1))
	require.NotEqual(t, "new-secret", f.userStore.PasswordHash(1))

	_, err = f.users.Login(ctx, &request.Login{Email: "erin@example.com", Password: "new-secret"})
	require.NoError(t, err)
}

func TestEmailChangeDropsOldCredentials(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	token := register(t, f, "old@example.com")

	_, err := f.users.Login(ctx, &request.Login{Email: "old@example.com", Password: "secret1"})
	require.NoError(t, err)
	oldKey := cache.Keys{}.UserEmail("old@example.com")
	require.True(t, f.redis.Exists(oldKey))

	_, err = f.users.UpdateUser(ctx, token, &request.UpdateUser{ID: 1, Email: strPtr("new@example.com")})
	require.NoError(t, err)
	require.False(t, f.redis.Exists(oldKey))

	_, err = f.users.Login(ctx, &request.Login{Email: "old@example.com", Password: "secret1"})
	require.True(t, apperr.Is(err, apperr.Unauthorized))
	_, err = f.users.Login(ctx, &request.Login{Email: "new@example.com", Password: "secret1"})
	require.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := register(t, f, "alice@example.com")
	admin := f.token(t, 99, model.RoleAdmin)

	_, err := f.users.DeleteUser(ctx, alice, 1)
	require.True(t, apperr.Is(err, apperr.Forbidden))

	deleted, err := f.users.DeleteUser(ctx, admin, 1)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", deleted.Email)

	_, err = f.users.GetUser(ctx, admin, 1)
	require.True(t, apperr.Is(err, apperr.NotFound))

	_, err = f.users.DeleteUser(ctx, admin, 1)
	require.True(t, apperr.Is(err, apperr.NotFound))
	require.Equal(t, "User not found or already deleted.", apperr.Message(err))

	_, err = f.users.Login(ctx, &request.Login{Email: "alice@example.com", Password: "secret1"})
	require.True(t, apperr.Is(err, apperr.Unauthorized))
}
