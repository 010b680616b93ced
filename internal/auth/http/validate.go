package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/kushistore/storefront/internal/auth/domain"
	"github.com/kushistore/storefront/pkg/authsdk"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate parses the JSON body into dst and runs struct validation.
// missing is the error written for an unreadable body or a failed required
// field; a too-short password gets its own message.
func decodeAndValidate(r *http.Request, dst any, missing *authsdk.APIError) *authsdk.APIError {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return missing
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				if fe.Field() == "Password" && fe.Tag() == "min" {
					return authsdk.ErrPasswordTooShort
				}
			}
		}
		return missing
	}
	return nil
}

func toAPIUser(u domain.PublicUser) authsdk.User {
	return authsdk.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}
