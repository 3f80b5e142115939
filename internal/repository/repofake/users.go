package repofake

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/repository"
)

type userRow struct {
	user model.User
	hash string
}

// UserStore is an in-memory users table.
type UserStore struct {
	*table[userRow]
}

var _ repository.UserStorer = (*UserStore)(nil)

func NewUserStore() *UserStore { return &UserStore{table: newTable[userRow]()} }

func (s *UserStore) emailTaken(email string, except uint64) bool {
	for id, r := range s.rows {
		if id != except && r.user.Email == email {
			return true
		}
	}
	return false
}

func conflict() error {
	return apperr.Wrap(apperr.Conflict, repository.ErrEmailExists, "Email is already in use. Please try a different email.")
}

func (s *UserStore) FindByID(_ context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("FindByID")
	r, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	u := r.user
	return &u, nil
}

func (s *UserStore) FindCredentialsByEmail(_ context.Context, email string) (*model.UserCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("FindCredentialsByEmail")
	email = strings.ToLower(strings.TrimSpace(email))
	for _, r := range s.rows {
		if r.user.Email == email {
			return &model.UserCredentials{User: r.user, PasswordHash: r.hash}, nil
		}
	}
	return nil, nil
}

func (s *UserStore) FindAll(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("FindAll")
	rows := s.sorted(func(r userRow) time.Time { return r.user.CreatedAt }, func(r userRow) uint64 { return r.user.ID })
	out := make([]model.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.user)
	}
	return out, nil
}

func (s *UserStore) Insert(_ context.Context, nu model.NewUser) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("Insert")
	email := strings.ToLower(strings.TrimSpace(nu.Email))
	if s.emailTaken(email, 0) {
		return nil, conflict()
	}
	role := nu.Role
	if role == "" {
		role = model.RoleCustomer
	}
	u := model.User{
		ID:          s.allocID(),
		Name:        nu.Name,
		Email:       email,
		Role:        role,
		PhoneNumber: nu.PhoneNumber,
		CreatedAt:   s.tick(),
	}
	s.rows[u.ID] = userRow{user: u, hash: nu.PasswordHash}
	return &u, nil
}

func (s *UserStore) Update(_ context.Context, id uint64, p model.UserPatch) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("Update")
	r, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if s.emailTaken(email, id) {
			return nil, conflict()
		}
		r.user.Email = email
	}
	if p.Name != nil {
		r.user.Name = *p.Name
	}
	if p.PasswordHash != nil {
		r.hash = *p.PasswordHash
	}
	if p.Role != nil {
		r.user.Role = *p.Role
	}
	if p.PhoneNumber != nil {
		phone := *p.PhoneNumber
		r.user.PhoneNumber = &phone
	}
	s.rows[id] = r
	u := r.user
	return &u, nil
}

func (s *UserStore) Delete(_ context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("Delete")
	r, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	delete(s.rows, id)
	u := r.user
	return &u, nil
}

// PasswordHash returns the stored hash for id, for assertions.
func (s *UserStore) PasswordHash(id uint64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows[id].hash
}
