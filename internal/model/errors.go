package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Admin errors
	ErrAdminAlreadyExists = errors.New("an admin already exists")

	// Role errors
	ErrInvalidRole = errors.New("invalid role")
)
