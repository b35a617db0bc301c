package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user_exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrSessionExpired     = errors.New("session expired")
	ErrUnknownTable       = errors.New("unknown table")
	ErrUnknownAction      = errors.New("unknown action")
	ErrMissingKey         = errors.New("missing key field")
	ErrLogNotFound        = errors.New("log entry not found")
	ErrQueryNotFound      = errors.New("unanswered query not found")
	ErrInvalidFileName    = errors.New("invalid file name")
)
