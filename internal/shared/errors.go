package shared

import "errors"

var (
	// ErrNotFound indicates the referenced user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. Unknown email, wrong
	// password and disabled accounts all surface as this one error.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden indicates the policy denied the action.
	ErrForbidden = errors.New("forbidden")
	// ErrRoleNotFound indicates a role id supplied for reassignment does not resolve.
	ErrRoleNotFound = errors.New("role not found")
	// ErrLastAdmin indicates an operation would remove the last administrator.
	ErrLastAdmin = errors.New("cannot delete the last administrator")
	// ErrDuplicateEmail indicates the email is already taken by another account.
	ErrDuplicateEmail = errors.New("email already in use")
)
