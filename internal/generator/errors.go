package generator

import "errors"

// Sentinel errors for generator setup
var (
	ErrUnknownPolicy  = errors.New("unknown generation policy")
	ErrInvalidCount   = errors.New("record count must be at least 1")
	ErrNoRecords      = errors.New("taxonomy weights produce no records")
	ErrNoTaxonomy     = errors.New("taxonomy not configured")
	ErrAlreadyStarted = errors.New("generator already ran")
)
