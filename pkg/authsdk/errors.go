package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kushistore/storefront/pkg/httpx"
)

// APIError is the storefront API's error envelope. It implements the error
// interface and is used both by the server's HTTP handlers (to write
// responses) and by the SDK client (to represent failed calls). Messages are
// in pt-BR because they are shown to shoppers as-is.
type APIError struct {
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"-"`

	// Message is the shopper-facing description.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// WriteError writes this error as a JSON response envelope.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": e.Message,
	})
}

var (
	// ErrMissingFields is returned when registration lacks a required field.
	ErrMissingFields = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "Nome, e-mail e senha são obrigatórios",
	}

	// ErrMissingCredentials is returned when login lacks email or password.
	ErrMissingCredentials = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "E-mail e senha são obrigatórios",
	}

	// ErrPasswordTooShort is returned for passwords under six characters.
	ErrPasswordTooShort = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "A senha deve ter pelo menos 6 caracteres",
	}

	// ErrEmailTaken is returned when the registration email already has an
	// account.
	ErrEmailTaken = &APIError{
		StatusCode: http.StatusConflict,
		Message:    "E-mail já cadastrado",
	}

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the response can't be used to probe which emails have accounts.
	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "E-mail ou senha incorretos",
	}

	// ErrAccountDisabled is returned when the credentials verify but the
	// account has been deactivated.
	ErrAccountDisabled = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Conta desativada. Entre em contato com o suporte.",
	}

	// ErrMissingToken is returned when a protected endpoint is called
	// without a bearer token.
	ErrMissingToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Token de acesso necessário",
	}

	// ErrInvalidToken is returned when the bearer token fails verification.
	ErrInvalidToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Token inválido ou expirado",
	}

	// ErrInvalidResetToken is returned for unknown or expired password-reset
	// tokens.
	ErrInvalidResetToken = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "Token de redefinição inválido ou expirado",
	}

	// ErrUserNotFound is returned when a token names an account that no
	// longer exists.
	ErrUserNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Message:    "Usuário não encontrado",
	}

	// ErrInternal is the catch-all for unexpected failures.
	ErrInternal = &APIError{
		StatusCode: http.StatusInternalServerError,
		Message:    "Erro interno do servidor",
	}
)

// parseErrorResponse turns a non-2xx response body into a typed *APIError.
// Returns nil for success status codes.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
