package model

import "time"

// Role is the authorization role carried by a user and by every token
// issued for them.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleSeller:
		return true
	}
	return false
}

// Principal is the authenticated caller as decoded from a verified token.
// It is a view of a users row and is never persisted on its own.
type Principal struct {
	ID   uint64 `json:"id"`
	Role Role   `json:"role"`
}

// User represents a row of the `users` table without its secret columns.
// This is the shape cached under user:{id} and all_users and returned to
// callers.
//
// Fields:
//  ID          – users.id
//  Name        – users.name
//  Email       – unique email address, stored lower-cased
//  Role        – users.role
//  PhoneNumber – optional E.164 phone number
//  CreatedAt   – users.created_at
type User struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserCredentials is a users row including the bcrypt password hash. It is
// only used on the login path and cached under user_email:{email}.
type UserCredentials struct {
	User
	PasswordHash string `json:"passwordHash"`
}

// NewUser is the column set written when a user registers.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	PhoneNumber  *string
}

// UserPatch is a partial update of a users row. Nil fields are left
// unchanged.
type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *Role
	PhoneNumber  *string
}
