package usecase

import "github.com/Limon4ik66607/TestCRM/internal/core/domain"

// RequireAdmin passes only identities holding the admin or owner role.
func RequireAdmin(actor *domain.Identity) error {
	if actor == nil || !actor.Role.IsAdministrative() {
		return ErrForbidden
	}
	return nil
}

// forbidSelfTarget rejects privileged mutations aimed at the acting account.
// Role changes and deletion must always go through another administrator.
func forbidSelfTarget(actor *domain.Identity, targetID string) error {
	if actor != nil && actor.ID == targetID {
		return ErrSelfOperation
	}
	return nil
}
