package models

import (
	"errors"

	goval "github.com/go-passwd/validator"
)

const (
	UserTypeAdmin   = "admin"
	UserTypeCitizen = "citizen"
)

// User is a session user; admins are configured, citizens are registered
type User struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// IsAdmin reports whether u may change report status
func (u *User) IsAdmin() bool {
	return u.Type == UserTypeAdmin
}

// Public returns a copy of u without the password hash
func (u User) Public() *User {
	u.Password = ""
	return &u
}

type SignupRequest struct {
	Type     string `json:"type" conform:"trim,lower" validate:"omitempty,oneof=admin citizen"`
	Username string `json:"username" conform:"trim" validate:"required,min=2"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" conform:"trim"`
	Email    string `json:"email" conform:"trim,email" validate:"omitempty,email"`
	Phone    string `json:"phone" conform:"trim"`
}

type LoginRequest struct {
	Type     string `json:"type" conform:"trim,lower" validate:"omitempty,oneof=admin citizen"`
	Username string `json:"username" conform:"trim" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdate carries the contact fields a citizen may edit
type ProfileUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
}

type LoginResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(32, errors.New("password cant be more than 32 characters")))
	return passwordValidator.Validate(password)
}
