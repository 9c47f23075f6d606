// Package ledger is the append-only log of purchases and the commissions
// each one paid. Records are stored oldest first and read newest first.
//
// Every appended transaction is chained to its predecessor by a double
// SHA-256 digest, so editing or dropping a past record breaks Verify.
package ledger

import "fmt"

// Ledger holds transactions in append order. It has no update or delete
// operation. It is not safe for concurrent use.
type Ledger struct {
	txs  []*Transaction
	byID map[string]*Transaction
}

// New wraps previously recorded transactions, oldest first. The records are
// taken as-is; call Verify to check their digest chain.
func New(txs []*Transaction) (*Ledger, error) {
	l := &Ledger{
		txs:  make([]*Transaction, 0, len(txs)),
		byID: make(map[string]*Transaction, len(txs)),
	}
	for _, tx := range txs {
		if tx == nil {
			return nil, ErrNilTransaction
		}
		if _, ok := l.byID[tx.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTransaction, tx.ID)
		}
		l.txs = append(l.txs, tx)
		l.byID[tx.ID] = tx
	}
	return l, nil
}

// Append records tx, filling in PrevDigest and Digest.
func (l *Ledger) Append(tx *Transaction) error {
	if tx == nil {
		return ErrNilTransaction
	}
	if tx.ID == "" {
		return ErrMissingID
	}
	if _, ok := l.byID[tx.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTransaction, tx.ID)
	}

	prev := l.headDigest()
	digest, err := ComputeDigest(tx, prev)
	if err != nil {
		return err
	}
	tx.PrevDigest = prev
	tx.Digest = digest

	l.txs = append(l.txs, tx)
	l.byID[tx.ID] = tx
	return nil
}

func (l *Ledger) headDigest() string {
	if len(l.txs) == 0 {
		return ""
	}
	return l.txs[len(l.txs)-1].Digest
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int { return len(l.txs) }

// Get returns the transaction with the given ID.
func (l *Ledger) Get(id string) (*Transaction, error) {
	tx, ok := l.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTransactionNotFound, id)
	}
	return tx, nil
}

// ListAll returns every transaction, most recent first.
func (l *Ledger) ListAll() []*Transaction {
	out := make([]*Transaction, 0, len(l.txs))
	for i := len(l.txs) - 1; i >= 0; i-- {
		out = append(out, l.txs[i])
	}
	return out
}

// ListFor returns the transactions userID bought or earned commission from,
// most recent first.
func (l *Ledger) ListFor(userID string) []*Transaction {
	var out []*Transaction
	for i := len(l.txs) - 1; i >= 0; i-- {
		if l.txs[i].Involves(userID) {
			out = append(out, l.txs[i])
		}
	}
	return out
}

// Transactions returns the records in storage (append) order.
func (l *Ledger) Transactions() []*Transaction {
	out := make([]*Transaction, len(l.txs))
	copy(out, l.txs)
	return out
}

// Verify recomputes the digest chain from the first record and returns
// ErrDigestMismatch at the first record that does not match.
func (l *Ledger) Verify() error {
	prev := ""
	for i, tx := range l.txs {
		if tx.PrevDigest != prev {
			return fmt.Errorf("%w: transaction %d (%s) does not link to its predecessor", ErrDigestMismatch, i, tx.ID)
		}
		want, err := ComputeDigest(tx, prev)
		if err != nil {
			return err
		}
		if tx.Digest != want {
			return fmt.Errorf("%w: transaction %d (%s) was modified", ErrDigestMismatch, i, tx.ID)
		}
		prev = tx.Digest
	}
	return nil
}
