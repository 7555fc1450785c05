package identity

import (
	"errors"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	identityclient "github.com/mamadbah2/stockbook/pkg/clients/identity"
)

var authMessages = map[apperror.AuthKind]string{
	apperror.AuthInvalidCredential:  "Invalid email or password. Please try again.",
	apperror.AuthUserNotFound:       "No account found with this email.",
	apperror.AuthWrongPassword:      "Incorrect password.",
	apperror.AuthInvalidEmail:       "Invalid email format.",
	apperror.AuthEmailAlreadyInUse:  "This email is already registered. Please log in.",
	apperror.AuthWeakPassword:       "Password is too weak. Must be at least 6 characters.",
	apperror.AuthUnauthorizedDomain: "This domain is not authorized.",
	apperror.AuthGeneric:            "An error occurred during authentication.",
}

var providerCodes = map[string]apperror.AuthKind{
	"INVALID_LOGIN_CREDENTIALS": apperror.AuthInvalidCredential,
	"INVALID_IDP_RESPONSE":      apperror.AuthInvalidCredential,
	"USER_DISABLED":             apperror.AuthInvalidCredential,
	"EMAIL_NOT_FOUND":           apperror.AuthUserNotFound,
	"INVALID_PASSWORD":          apperror.AuthWrongPassword,
	"INVALID_EMAIL":             apperror.AuthInvalidEmail,
	"MISSING_EMAIL":             apperror.AuthInvalidEmail,
	"EMAIL_EXISTS":              apperror.AuthEmailAlreadyInUse,
	"WEAK_PASSWORD":             apperror.AuthWeakPassword,
	"MISSING_PASSWORD":          apperror.AuthWeakPassword,
	"UNAUTHORIZED_DOMAIN":       apperror.AuthUnauthorizedDomain,
}

func authError(kind apperror.AuthKind) *apperror.AppError {
	return apperror.NewAuth(kind, authMessages[kind])
}

// mapProviderError translates a provider failure into the auth taxonomy.
func mapProviderError(err error) *apperror.AppError {
	var perr *identityclient.ProviderError
	if errors.As(err, &perr) {
		if kind, ok := providerCodes[perr.Code]; ok {
			return authError(kind)
		}
	}
	return authError(apperror.AuthGeneric).WithCause(err)
}
