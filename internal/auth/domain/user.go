package domain

import "time"

// User is the credential-store record for one account. PasswordHash always
// holds a bcrypt hash, never a plaintext password, and ResetTokenHash holds a
// fingerprint of the opaque reset token, never the token itself.
type User struct {
	ID                string
	Name              string
	Email             string // unique, matched exactly (case-sensitive)
	Phone             *string
	PasswordHash      string
	Avatar            *string
	Active            bool
	ResetTokenHash    *string
	ResetTokenExpires *time.Time
	LastLogin         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PublicUser is the projection of a User that is safe to hand to clients.
// There is deliberately no field for the password hash or reset token, so a
// careless marshal can't leak them.
type PublicUser struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	Avatar    *string    `json:"avatar,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// Public returns the client-safe projection of u.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}
