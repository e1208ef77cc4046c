package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserEmailExists        = errors.New("email already registered")
	ErrForbidden              = errors.New("you are not allowed to access this user")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrSelfDelete             = errors.New("admins cannot delete their own account")
	ErrSelfDemote             = errors.New("admins cannot remove their own admin role")
	ErrManagerNotFound        = errors.New("reporting manager not found")
	ErrSelfManager            = errors.New("a user cannot report to themselves")
	ErrMissingPrincipal       = errors.New("no authenticated user in context")
)
