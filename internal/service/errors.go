package service

import "errors"

// Recoverable domain errors. Handlers and the console map these to structured
// responses; anything else is treated as a store failure and propagates.
var (
	ErrProductNotFound    = errors.New("Product not found")
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidCredentials = errors.New("Invalid credentials")
)
