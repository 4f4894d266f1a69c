package taxonomy

import "errors"

// Sentinel errors returned by Validate and Load
var (
	ErrEmptyTaxonomy  = errors.New("taxonomy has no categories")
	ErrEmptyCategory  = errors.New("category has no subcategories")
	ErrDuplicateName  = errors.New("duplicate name")
	ErrInvalidName    = errors.New("invalid name")
	ErrNegativeWeight = errors.New("negative weight")
	ErrWeightOverflow = errors.New("total weight overflows")
)
