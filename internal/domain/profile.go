package domain

import "strings"

// UserRole уровень доступа для операций над каталогом
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleUser
}

// UserProfile is the display profile attached to a caller identity. The
// identity itself comes from the external session provider and is opaque here.
type UserProfile struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func NewUserProfile(userID, name string) *UserProfile {
	return &UserProfile{
		UserID: userID,
		Name:   name,
	}
}

func (p *UserProfile) Validate() error {
	if p.UserID == "" {
		return ErrMissingIdentity
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidInput
	}
	return nil
}
