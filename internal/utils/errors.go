package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken        = errors.New("INVALID_TOKEN")
	ErrInvalidCredentials  = errors.New("INVALID_CREDENTIALS")
	ErrDocumentUnavailable = errors.New("DOCUMENT_UNAVAILABLE")
	ErrNoDraft             = errors.New("NO_DRAFT")
	ErrParticularIndex     = errors.New("PARTICULAR_INDEX_OUT_OF_RANGE")
)
