package service

import "errors"

// Service layer errors; handlers map these onto HTTP statuses.
var (
	ErrVersionNotFound = errors.New("version not found")
	ErrUserNotFound    = errors.New("user not found")

	// Collaborator management
	ErrAlreadyCollaborator = errors.New("user is already a collaborator or owner of this project")
	ErrOwnerRemoval        = errors.New("cannot remove project owner")

	// Identity
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
