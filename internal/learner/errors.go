package learner

import "errors"

var (
	ErrNilProfile      = errors.New("profile is nil")
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrUnknownUseCase  = errors.New("unknown use case")
	ErrOutOfDomain     = errors.New("use case belongs to another domain")
	ErrUnknownTree     = errors.New("unknown skill tree")
	ErrNoProgram       = errors.New("no program for this profile")
	ErrProgramActive   = errors.New("another program is already in progress")
	ErrNoReviewer      = errors.New("no reviewer configured")
	ErrInvalidPreview  = errors.New("invalid preview variant")
)
