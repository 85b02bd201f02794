package domain

import (
	"strings"
	"time"
)

const (
	RoleReader = "reader"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// Address is the optional postal address on a user profile.
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty" bson:"zip_code,omitempty"`
}

// Profile holds optional user details.
type Profile struct {
	Avatar  string   `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Phone   string   `json:"phone,omitempty" bson:"phone,omitempty"`
	Address *Address `json:"address,omitempty" bson:"address,omitempty"`
}

// User models an account: a reader, a vendor or an admin.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Profile      *Profile  `json:"profile,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID string
	Role   string
}

// UserSummary is the public subset of a user joined onto requests and quotes.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary returns the public subset of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsSelfServiceRole reports whether role can be chosen at registration.
func IsSelfServiceRole(role string) bool {
	return role == RoleReader || role == RoleVendor
}
