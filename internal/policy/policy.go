// Package policy decides whether a caller may run an operation. Rules are
// data: one entry per operation, plus a per-field table for partial user
// updates.
package policy

import (
	"context"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/model"
)

// Operation names one externally callable operation.
type Operation string

const (
	Register       Operation = "user.register"
	Login          Operation = "user.login"
	Logout         Operation = "user.logout"
	GetUser        Operation = "user.get"
	ListUsers      Operation = "user.list"
	UpdateUser     Operation = "user.update"
	DeleteUser     Operation = "user.delete"
	ListProducts   Operation = "product.list"
	GetProduct     Operation = "product.get"
	CreateProduct  Operation = "product.create"
	UpdateProduct  Operation = "product.update"
	DeleteProduct  Operation = "product.delete"
	ListCategories Operation = "category.list"
	GetCategory    Operation = "category.get"
	CreateCategory Operation = "category.create"
	UpdateCategory Operation = "category.update"
	DeleteCategory Operation = "category.delete"
)

// Rule gates one operation.
type Rule struct {
	// RequireToken makes a verified bearer token mandatory.
	RequireToken bool
	// Roles, when non-empty, lists the roles allowed regardless of
	// ownership.
	Roles []model.Role
	// Owner lets the principal whose id equals the target id through even
	// when its role is not listed.
	Owner bool
	// Deny is the message reported on a Forbidden outcome.
	Deny string
}

var adminOnly = []model.Role{model.RoleAdmin}

// Rules is the operation table.
var Rules = map[Operation]Rule{
	Register:       {},
	Login:          {},
	Logout:         {RequireToken: true},
	ListProducts:   {},
	GetProduct:     {},
	ListCategories: {},
	GetCategory:    {},

	GetUser: {RequireToken: true, Roles: adminOnly, Owner: true,
		Deny: "Unauthorized: You can only view your own profile unless you're an admin."},
	ListUsers: {RequireToken: true, Roles: adminOnly,
		Deny: "Unauthorized: Only admins can fetch all users."},
	UpdateUser: {RequireToken: true, Roles: adminOnly, Owner: true,
		Deny: "Unauthorized: You can only update your own profile unless you're an admin."},
	DeleteUser: {RequireToken: true, Roles: adminOnly,
		Deny: "Only admins can delete users."},

	CreateProduct:  {RequireToken: true, Roles: adminOnly, Deny: "Unauthorized: Only admins can perform this action."},
	UpdateProduct:  {RequireToken: true, Roles: adminOnly, Deny: "Unauthorized: Only admins can perform this action."},
	DeleteProduct:  {RequireToken: true, Roles: adminOnly, Deny: "Unauthorized: Only admins can perform this action."},
	CreateCategory: {RequireToken: true, Roles: adminOnly, Deny: "Unauthorized: Only admins can perform this action."},
	UpdateCategory: {RequireToken: true, Roles: adminOnly, Deny: "Unauthorized: Only admins can perform this action."},
	DeleteCategory: {RequireToken: true, Roles: adminOnly, Deny: "Unauthorized: Only admins can perform this action."},
}

// Verifier turns a raw bearer token into a Principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (model.Principal, error)
}

// Policy evaluates Rules against verified principals.
type Policy struct {
	tokens Verifier
}

func New(tokens Verifier) *Policy { return &Policy{tokens: tokens} }

// Authorize checks op for the caller holding token. target is the owner id
// of the addressed resource, or zero when the operation has none. Token
// problems are reported before role and ownership are considered. For
// operations that need no token the returned principal is nil.
func (p *Policy) Authorize(ctx context.Context, op Operation, token string, target uint64) (*model.Principal, error) {
	rule, ok := Rules[op]
	if !ok {
		return nil, apperr.New(apperr.Internal, "no authorization rule for "+string(op))
	}
	if !rule.RequireToken {
		return nil, nil
	}
	if token == "" {
		return nil, apperr.New(apperr.Unauthorized, "Access token required.")
	}
	principal, err := p.tokens.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := rule.check(principal, target); err != nil {
		return nil, err
	}
	return &principal, nil
}

// Optional verifies token when one is present. It returns a nil principal
// for an empty token.
func (p *Policy) Optional(ctx context.Context, token string) (*model.Principal, error) {
	if token == "" {
		return nil, nil
	}
	principal, err := p.tokens.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return &principal, nil
}

func (r Rule) check(p model.Principal, target uint64) error {
	if len(r.Roles) == 0 && !r.Owner {
		return nil
	}
	for _, role := range r.Roles {
		if p.Role == role {
			return nil
		}
	}
	if r.Owner && target != 0 && p.ID == target {
		return nil
	}
	msg := r.Deny
	if msg == "" {
		msg = "forbidden"
	}
	return apperr.New(apperr.Forbidden, msg)
}
