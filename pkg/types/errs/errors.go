package errs

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrAlreadyReconciled = errors.New("record already reconciled")

	ErrValidation             = errors.New("validation error")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrPersistence            = errors.New("persistence error")
	ErrAIProvider             = errors.New("ai provider failure")
)
