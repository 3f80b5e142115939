package policy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/policy"
)

// stubVerifier maps raw tokens to principals; unknown tokens are
// Unauthorized.
type stubVerifier map[string]model.Principal

func (s stubVerifier) Verify(_ context.Context, token string) (model.Principal, error) {
	p, ok := s[token]
	if !ok {
		return model.Principal{}, apperr.New(apperr.Unauthorized, "Invalid or expired token.")
	}
	return p, nil
}

var tokens = stubVerifier{
	"admin":    {ID: 1, Role: model.RoleAdmin},
	"customer": {ID: 2, Role: model.RoleCustomer},
	"seller":   {ID: 3, Role: model.RoleSeller},
}

func TestAuthorizeTable(t *testing.T) {
	p := policy.New(tokens)

	tests := []struct {
		name   string
		op     policy.Operation
		token  string
		target uint64
		want   apperr.Kind
		ok     bool
	}{
		{"register needs no token", policy.Register, "", 0, 0, true},
		{"login needs no token", policy.Login, "", 0, 0, true},
		{"public product list", policy.ListProducts, "", 0, 0, true},
		{"public category get", policy.GetCategory, "", 0, 0, true},
		{"logout without token", policy.Logout, "", 0, apperr.Unauthorized, false},
		{"logout with token", policy.Logout, "customer", 0, 0, true},
		{"get own user", policy.GetUser, "customer", 2, 0, true},
		{"get other user", policy.GetUser, "customer", 3, apperr.Forbidden, false},
		{"admin gets any user", policy.GetUser, "admin", 3, 0, true},
		{"customer lists users", policy.ListUsers, "customer", 0, apperr.Forbidden, false},
		{"admin lists users", policy.ListUsers, "admin", 0, 0, true},
		{"update own user", policy.UpdateUser, "seller", 3, 0, true},
		{"update other user", policy.UpdateUser, "seller", 2, apperr.Forbidden, false},
		{"delete self as customer", policy.DeleteUser, "customer", 2, apperr.Forbidden, false},
		{"admin deletes user", policy.DeleteUser, "admin", 2, 0, true},
		{"customer creates product", policy.CreateProduct, "customer", 0, apperr.Forbidden, false},
		{"seller creates category", policy.CreateCategory, "seller", 0, apperr.Forbidden, false},
		{"admin deletes product", policy.DeleteProduct, "admin", 0, 0, true},
		{"missing token beats role check", policy.CreateProduct, "", 0, apperr.Unauthorized, false},
		{"bad token", policy.UpdateCategory, "garbage", 0, apperr.Unauthorized, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Authorize(context.Background(), tc.op, tc.token, tc.target)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, tc.want, apperr.KindOf(err))
		})
	}
}

func TestEveryOperationHasARule(t *testing.T) {
	ops := []policy.Operation{
		policy.Register, policy.Login, policy.Logout, policy.GetUser, policy.ListUsers,
		policy.UpdateUser, policy.DeleteUser, policy.ListProducts, policy.GetProduct,
		policy.CreateProduct, policy.UpdateProduct, policy.DeleteProduct,
		policy.ListCategories, policy.GetCategory, policy.CreateCategory,
		policy.UpdateCategory, policy.DeleteCategory,
	}
	for _, op := range ops {
		_, ok := policy.Rules[op]
		require.True(t, ok, op)
	}
}

func TestUnknownOperationIsInternal(t *testing.T) {
	_, err := policy.New(tokens).Authorize(context.Background(), "order.create", "admin", 0)
	require.True(t, apperr.Is(err, apperr.Internal))
}

func TestCheckFields(t *testing.T) {
	self := &model.Principal{ID: 2, Role: model.RoleCustomer}
	admin := &model.Principal{ID: 1, Role: model.RoleAdmin}

	require.NoError(t, policy.CheckFields(policy.UserFields, self, []string{"name", "email"}))

	err := policy.CheckFields(policy.UserFields, self, []string{"name", "role"})
	require.True(t, apperr.Is(err, apperr.Forbidden))
	require.Equal(t, "Only admins can update user roles.", apperr.Message(err))

	require.NoError(t, policy.CheckFields(policy.UserFields, admin, []string{"role"}))
}

func TestCheckRegisterRole(t *testing.T) {
	require.NoError(t, policy.CheckRegisterRole(nil, model.RoleCustomer))
	require.NoError(t, policy.CheckRegisterRole(nil, model.RoleSeller))
	require.True(t, apperr.Is(policy.CheckRegisterRole(nil, model.RoleAdmin), apperr.Forbidden))
	require.NoError(t, policy.CheckRegisterRole(&model.Principal{ID: 1, Role: model.RoleAdmin}, model.RoleAdmin))
	require.True(t, apperr.Is(policy.CheckRegisterRole(nil, "root"), apperr.ValidationFailed))
}
