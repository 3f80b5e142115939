package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/model"
)

const userColumns = "id, name, email, role, phone_number, created_at"

// UserStore mirrors the 'users' table.
type UserStore struct{ DB *sql.DB }

var _ Store[model.User, model.NewUser, model.UserPatch] = (*UserStore)(nil)

func NewUserStore(db *sql.DB) *UserStore { return &UserStore{DB: db} }

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func scanUser(row interface{ Scan(...any) error }, u *model.User, extra ...any) error {
	var (
		role  string
		phone sql.NullString
	)
	dest := append([]any{&u.ID, &u.Name, &u.Email, &role, &phone, &u.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	u.Role = model.Role(role)
	u.PhoneNumber = stringPtr(phone)
	return nil
}

// FindByID fetches a user by id.
func (s *UserStore) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := scanUser(s.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "select user")
	}
	return &u, nil
}

// FindCredentialsByEmail fetches a user together with the password hash by
// normalized email.
func (s *UserStore) FindCredentialsByEmail(ctx context.Context, email string) (*model.UserCredentials, error) {
	var c model.UserCredentials
	err := scanUser(s.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+", password_hash FROM users WHERE email=? LIMIT 1",
		normalizeEmail(email)), &c.User, &c.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "select user by email")
	}
	return &c, nil
}

// FindAll lists users newest first.
func (s *UserStore) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list users")
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, pkgerrors.Wrap(err, "scan user")
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "iterate users")
	}
	return out, nil
}

// Insert creates a user and returns the stored row.
func (s *UserStore) Insert(ctx context.Context, nu model.NewUser) (*model.User, error) {
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, phone_number) VALUES (?,?,?,?,?)",
		nu.Name, normalizeEmail(nu.Email), nu.PasswordHash, string(nu.Role), nullString(nu.PhoneNumber))
	if err != nil {
		if isDuplicate(err) {
			return nil, apperr.Wrap(apperr.Conflict, ErrEmailExists, "Email is already in use. Please try a different email.")
		}
		return nil, pkgerrors.Wrap(err, "insert user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "user last insert id")
	}
	if id == 0 {
		return nil, nil
	}
	// Follow-up SELECT fills defaulted columns (role, created_at).
	return s.FindByID(ctx, uint64(id))
}

// Update writes the non-nil fields of patch.
func (s *UserStore) Update(ctx context.Context, id uint64, p model.UserPatch) (*model.User, error) {
	var set setClause
	if p.Name != nil {
		set.add("name", *p.Name)
	}
	if p.Email != nil {
		set.add("email", normalizeEmail(*p.Email))
	}
	if p.PasswordHash != nil {
		set.add("password_hash", *p.PasswordHash)
	}
	if p.Role != nil {
		set.add("role", string(*p.Role))
	}
	if p.PhoneNumber != nil {
		set.add("phone_number", *p.PhoneNumber)
	}
	if set.empty() {
		return s.FindByID(ctx, id)
	}
	_, err := s.DB.ExecContext(ctx,
		"UPDATE users SET "+set.sql()+" WHERE id = ?", append(set.args, id)...)
	if err != nil {
		if isDuplicate(err) {
			return nil, apperr.Wrap(apperr.Conflict, ErrEmailExists, "Email is already in use. Please try a different email.")
		}
		return nil, pkgerrors.Wrap(err, "update user")
	}
	return s.FindByID(ctx, id)
}

// Delete removes a user and returns the row as it was before deletion.
// Orders and payments go with it through ON DELETE CASCADE.
func (s *UserStore) Delete(ctx context.Context, id uint64) (out *model.User, err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "begin delete user")
	}
	defer func() {
		if err != nil || out == nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			out, err = nil, pkgerrors.Wrap(cerr, "commit delete user")
		}
	}()

	var u model.User
	err = scanUser(tx.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? FOR UPDATE", id), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "select user for delete")
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
		return nil, pkgerrors.Wrap(err, "delete user")
	}
	return &u, nil
}
