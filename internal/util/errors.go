package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrBadCredentials   = errors.New("invalid email or password")
	ErrAccountDisabled  = errors.New("account disabled")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAgentRequired    = errors.New("no agent selected")
	ErrBadCallDate      = errors.New("invalid call date")
	ErrAgentNotFound    = errors.New("agent not found")
	ErrGradeNotFound    = errors.New("grade not found")
)
