package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrInsufficientData = errors.New("not enough game-log data")
	ErrNoLineAvailable  = errors.New("no usable betting line")
	ErrQuotaExhausted   = errors.New("odds provider quota exhausted")
)
