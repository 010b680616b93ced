package authsdk

import "time"

// Success messages used by the server handlers and surfaced to shoppers.
const (
	MsgUserCreated   = "Usuário criado com sucesso"
	MsgLoginOK       = "Login realizado com sucesso"
	MsgResetEmailOK  = "Se o e-mail estiver cadastrado, você receberá as instruções de redefinição"
	MsgPasswordReset = "Senha redefinida com sucesso"
)

// User is the public account projection as it appears on the wire. It never
// carries the password hash.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	Avatar    *string    `json:"avatar,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest is the body of POST /api/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body of POST /api/reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResponse is the success envelope for register and login: the session
// token plus the account it belongs to.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// ProfileResponse is the success envelope for GET /api/profile.
type ProfileResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

// MessageResponse is the success envelope for operations that return no data.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthChecks reports per-dependency health in readiness probes.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is the body of the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
