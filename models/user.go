package models

import (
	"fmt"
	"time"

	"serviceconnect-backend/utils"
)

// UserType is the closed set of account roles.
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeProvider UserType = "provider"
	UserTypeAdmin    UserType = "admin"
)

// ParseUserType maps a role string to a UserType. Empty means customer.
func ParseUserType(s string) (UserType, error) {
	switch UserType(s) {
	case "":
		return UserTypeCustomer, nil
	case UserTypeCustomer, UserTypeProvider, UserTypeAdmin:
		return UserType(s), nil
	default:
		return "", fmt.Errorf("unknown account type %q", s)
	}
}

type User struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Address  string   `json:"address,omitempty"`
	Type     UserType `json:"type"`
	Password string   `json:"password,omitempty"` // bcrypt hash, stripped from responses

	// provider accounts only
	ServiceIDs []int  `json:"services,omitempty"`
	Experience string `json:"experience,omitempty"`
	ProviderID *int64 `json:"providerId,omitempty"` // linked directory entry

	CreatedAt time.Time `json:"createdAt"`
}

// HashPassword replaces the plaintext password with its bcrypt hash.
func (u *User) HashPassword() error {
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// Public returns the user without the password hash.
func (u User) Public() User {
	u.Password = ""
	u.ServiceIDs = append([]int(nil), u.ServiceIDs...)
	return u
}

// ProviderRef is the provider id the account books under: its directory
// entry when linked, else its own id.
func (u User) ProviderRef() int64 {
	if u.ProviderID != nil {
		return *u.ProviderID
	}
	return u.ID
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Type     string `json:"type"`
}

// RegisterInput is the sign-up form for customers and providers.
type RegisterInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Password   string `json:"password"`
	Type       string `json:"type"`
	ServiceIDs []int  `json:"services"`
	Experience string `json:"experience"`
}

// Session is the signed-in user and the token issued at login.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
