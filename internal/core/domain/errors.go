package domain

import "errors"

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidTaskFilter = errors.New("invalid task filter")
)
