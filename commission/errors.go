package commission

import (
	"errors"

	"github.com/bitfsorg/libreferral-go/catalog"
	"github.com/bitfsorg/libreferral-go/directory"
)

var (
	// ErrInvalidRateTable indicates a rate table that is empty, non-numeric,
	// negative, or (under RatePolicyCapped) sums to more than 100%.
	ErrInvalidRateTable = errors.New("commission: invalid rate table")

	// ErrUnknownUser indicates the buyer does not exist.
	ErrUnknownUser = directory.ErrUnknownUser

	// ErrUnknownProduct indicates the product does not exist.
	ErrUnknownProduct = catalog.ErrUnknownProduct

	// ErrInvalidRatePolicy indicates an unrecognized rate policy string.
	ErrInvalidRatePolicy = errors.New("commission: invalid rate policy (must be \"admin\" or \"capped\")")
)
