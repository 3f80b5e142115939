package policy

import (
	"sort"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/model"
)

// FieldRule restricts who may write a single field once the operation
// itself has been authorized.
type FieldRule struct {
	Roles []model.Role
	Deny  string
}

// UserFields is consulted before a partial user update is applied. Fields
// not listed follow the operation rule only.
var UserFields = map[string]FieldRule{
	"role": {Roles: adminOnly, Deny: "Only admins can update user roles."},
}

// RegisterRoles lists the roles a caller may pick when registering. Admin
// accounts can only be created by an authenticated admin.
var RegisterRoles = map[model.Role]FieldRule{
	model.RoleCustomer: {},
	model.RoleSeller:   {},
	model.RoleAdmin:    {Roles: adminOnly, Deny: "Only admins can create admin accounts."},
}

func (r FieldRule) allows(p *model.Principal) bool {
	if len(r.Roles) == 0 {
		return true
	}
	if p == nil {
		return false
	}
	for _, role := range r.Roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

// CheckFields rejects the whole write if any of fields is not writable by
// p under table. Fields are checked in name order so the reported field is
// deterministic.
func CheckFields(table map[string]FieldRule, p *model.Principal, fields []string) error {
	sorted := append([]string(nil), fields...)
	sort.Strings(sorted)
	for _, f := range sorted {
		rule, ok := table[f]
		if !ok || rule.allows(p) {
			continue
		}
		return apperr.New(apperr.Forbidden, rule.Deny)
	}
	return nil
}

// CheckRegisterRole reports whether p may create an account with role.
func CheckRegisterRole(p *model.Principal, role model.Role) error {
	rule, ok := RegisterRoles[role]
	if !ok {
		return apperr.Validation("Invalid user data.", []apperr.FieldError{{Field: "role", Message: "unknown role"}})
	}
	if !rule.allows(p) {
		return apperr.New(apperr.Forbidden, rule.Deny)
	}
	return nil
}
