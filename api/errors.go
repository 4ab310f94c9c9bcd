package api

import "errors"

var (
	ErrUnknownStream = errors.New("api: unknown output stream")
	ErrClosed        = errors.New("api: context is closed")
	ErrUnknownMode   = errors.New("api: unknown output mode")
)
