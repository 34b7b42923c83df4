package domain

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrNoProduct   = errors.New("no product selected")
	ErrEmptyCanvas = errors.New("design canvas is empty")
	ErrUploadType  = errors.New("unsupported file type")
	ErrUploadSize  = errors.New("file too large")
	ErrSessionGone = errors.New("design session not found")
)
