package contract

import "errors"

var (
	ErrRemoteCall = errors.New("remote completion call failed")
	ErrValidation = errors.New("validation failed")
)
