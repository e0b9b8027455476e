package apperr

import "errors"

var (
	ErrUnmatched     = errors.New("placeholder records left unmatched")
	ErrMalformed     = errors.New("malformed word data")
	ErrCountMismatch = errors.New("record count mismatch")
)
