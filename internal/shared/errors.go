package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionExpired occurs when a session token is no longer valid.
	ErrSessionExpired = errors.New("session expired")
)

// UserSafeMessage returns a message safe to show to end users.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "El recurso solicitado no existe."
	case errors.Is(err, ErrInvalidCredentials):
		return "Usuario o contraseña incorrectos."
	case errors.Is(err, ErrSessionExpired):
		return "La sesión ha expirado, inicie sesión nuevamente."
	default:
		return "Ocurrió un error inesperado."
	}
}
