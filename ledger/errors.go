package ledger

import "errors"

var (
	// ErrNilTransaction indicates a nil transaction was appended.
	ErrNilTransaction = errors.New("ledger: transaction is nil")

	// ErrMissingID indicates a transaction without an ID.
	ErrMissingID = errors.New("ledger: transaction id is empty")

	// ErrDuplicateTransaction indicates a transaction ID is already recorded.
	ErrDuplicateTransaction = errors.New("ledger: duplicate transaction")

	// ErrTransactionNotFound indicates the transaction ID is not recorded.
	ErrTransactionNotFound = errors.New("ledger: transaction not found")

	// ErrDigestMismatch indicates a recorded transaction no longer matches
	// its digest or does not link to its predecessor.
	ErrDigestMismatch = errors.New("ledger: digest chain mismatch")
)
