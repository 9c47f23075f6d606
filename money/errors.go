package money

import "errors"

var (
	// ErrInvalidAmount indicates a value could not be parsed as an amount.
	ErrInvalidAmount = errors.New("money: invalid amount")

	// ErrInvalidRate indicates a value could not be parsed as a percentage rate.
	ErrInvalidRate = errors.New("money: invalid rate")

	// ErrOverflow indicates a result that does not fit in an Amount or Rate.
	ErrOverflow = errors.New("money: value out of range")
)

var errNull = errors.New("null value")
