package service

import (
	"context"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/policy"
	"github.com/iliyamo/storefront/internal/queue"
	"github.com/iliyamo/storefront/internal/repository"
	"github.com/iliyamo/storefront/internal/request"
	"github.com/iliyamo/storefront/internal/utils"
)

const (
	msgBadCredentials = "Invalid email or password."
	msgEmailInUse     = "Email is already in use. Please try a different email."
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token IssuedToken `json:"token"`
}

// UserService implements account operations.
type UserService struct {
	users  *repository.UserRepository
	tokens *TokenService
	policy *policy.Policy
	cost   int
	notify notifier
}

// NewUserService wires the user operations. cost is the bcrypt work factor.
func NewUserService(users *repository.UserRepository, tokens *TokenService, pol *policy.Policy, cost int, events queue.Publisher) *UserService {
	return &UserService{users: users, tokens: tokens, policy: pol, cost: cost, notify: newNotifier(events)}
}

// Register creates an account and signs a token for it. token is optional;
// it is only needed to create admin accounts.
func (s *UserService) Register(ctx context.Context, token string, req *request.Register) (*AuthResult, error) {
	caller, err := s.policy.Optional(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := policy.CheckRegisterRole(caller, req.Role); err != nil {
		return nil, err
	}

	taken, err := s.users.EmailTaken(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Wrap(apperr.Conflict, repository.ErrEmailExists, msgEmailInUse)
	}

	hash, err := utils.HashPassword(req.Password, s.cost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "hash password")
	}
	user, err := s.users.Create(ctx, model.NewUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		PhoneNumber:  req.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}

	issued, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	s.notify.changed(ctx, "user", queue.ActionCreated, user.ID, caller)
	return &AuthResult{User: user, Token: issued}, nil
}

// Login checks credentials. Unknown email and wrong password are reported
// identically.
func (s *UserService) Login(ctx context.Context, req *request.Login) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	creds, err := s.users.CredentialsByEmail(ctx, req.Email)
	if apperr.Is(err, apperr.NotFound) {
		return nil, apperr.New(apperr.Unauthorized, msgBadCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(creds.PasswordHash, req.Password) {
		return nil, apperr.New(apperr.Unauthorized, msgBadCredentials)
	}

	issued, err := s.tokens.Issue(creds.ID, creds.Role)
	if err != nil {
		return nil, err
	}
	user := creds.User
	return &AuthResult{User: &user, Token: issued}, nil
}

// Logout revokes the caller's token.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if _, err := s.policy.Authorize(ctx, policy.Logout, token, 0); err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, token)
}

func (s *UserService) GetUser(ctx context.Context, token string, id uint64) (*model.User, error) {
	if _, err := s.policy.Authorize(ctx, policy.GetUser, token, id); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, token string) ([]model.User, error) {
	if _, err := s.policy.Authorize(ctx, policy.ListUsers, token, 0); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// UpdateUser applies a partial update. Only admins may change roles. A new
// password is re-hashed, and when the email changes the cached credentials
// under the old address are dropped as well.
func (s *UserService) UpdateUser(ctx context.Context, token string, req *request.UpdateUser) (*model.User, error) {
	caller, err := s.policy.Authorize(ctx, policy.UpdateUser, token, req.ID)
	if err != nil {
		return nil, err
	}
	if err := policy.CheckFields(policy.UserFields, caller, req.Fields()); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	patch := model.UserPatch{Name: req.Name, Email: req.Email, Role: req.Role, PhoneNumber: req.PhoneNumber}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password, s.cost)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, err, "hash password")
		}
		patch.PasswordHash = &hash
	}

	var before *model.User
	if req.Email != nil {
		before, err = s.users.Store().FindByID(ctx, req.ID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, err, "load user")
		}
		if before != nil && before.Email != *req.Email {
			taken, err := s.users.EmailTaken(ctx, *req.Email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperr.Wrap(apperr.Conflict, repository.ErrEmailExists, msgEmailInUse)
			}
		}
	}

	user, err := s.users.Update(ctx, req.ID, patch)
	if err != nil {
		return nil, err
	}
	if before != nil && before.Email != user.Email {
		if err := s.users.Invalidate(ctx, s.users.EmailKey(before.Email)); err != nil {
			return nil, err
		}
	}
	s.notify.changed(ctx, "user", queue.ActionUpdated, user.ID, caller)
	return user, nil
}

// DeleteUser removes a user and returns the removed row.
func (s *UserService) DeleteUser(ctx context.Context, token string, id uint64) (*model.User, error) {
	caller, err := s.policy.Authorize(ctx, policy.DeleteUser, token, id)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, apperr.Validation("Invalid user data.", []apperr.FieldError{{Field: "userId", Message: "Invalid user ID"}})
	}
	user, err := s.users.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify.changed(ctx, "user", queue.ActionDeleted, user.ID, caller)
	return user, nil
}
