package usecase

import "errors"

var (
	// ErrEmailConflict indicates the email is already registered.
	ErrEmailConflict = errors.New("email is already registered")
	// ErrIdentityNotFound indicates the referenced identity does not exist.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrClientNotFound indicates the referenced client does not exist or
	// belongs to another identity.
	ErrClientNotFound = errors.New("client not found")
	// ErrForbidden indicates the acting identity lacks the administrative role.
	ErrForbidden = errors.New("administrative privileges required")
	// ErrPermissionDenied indicates the identity's permission set does not
	// grant the attempted capability.
	ErrPermissionDenied = errors.New("permission not granted")
	// ErrSelfOperation indicates an administrator attempted a privileged
	// mutation against their own account.
	ErrSelfOperation = errors.New("operation cannot target the acting account")
	// ErrInvalidRole indicates an unknown role value was submitted.
	ErrInvalidRole = errors.New("unknown role")
	// ErrInvalidToken indicates the access token failed signature or
	// expiry validation.
	ErrInvalidToken = errors.New("access token is invalid or expired")
	// ErrUnknownSubject indicates a structurally valid token whose subject
	// no longer resolves to a stored identity.
	ErrUnknownSubject = errors.New("token subject no longer exists")
	// ErrAlreadyInitialized indicates bootstrap was attempted on a system
	// that already holds identities.
	ErrAlreadyInitialized = errors.New("system is already initialized")
	// ErrInvalidCredentials indicates a failed email or password check.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDisabled indicates the identity exists but is not active.
	ErrAccountDisabled = errors.New("account is not active")
)
