package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bsv-blockchain/go-sdk/chainhash"

	"github.com/bitfsorg/libreferral-go/money"
)

// CommissionEntry records one level's payout from a purchase.
type CommissionEntry struct {
	Level        int          `json:"level"` // 1-based
	ReceiverID   string       `json:"receiver_id"`
	ReceiverName string       `json:"receiver_name"`
	Amount       money.Amount `json:"amount"`
	Rate         money.Rate   `json:"rate"`
}

// Transaction is a recorded purchase and the commissions it paid.
type Transaction struct {
	ID          string            `json:"id"`
	BuyerID     string            `json:"buyer_id"`
	BuyerName   string            `json:"buyer_name"`
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	Amount      money.Amount      `json:"amount"` // product price at purchase time
	Timestamp   time.Time         `json:"timestamp"`
	Commissions []CommissionEntry `json:"commissions"`

	PrevDigest string `json:"prev_digest,omitempty"` // digest of the preceding transaction
	Digest     string `json:"digest"`
}

// CommissionTotal returns the sum of all commission entries.
func (tx *Transaction) CommissionTotal() money.Amount {
	var total money.Amount
	for _, c := range tx.Commissions {
		total = total.Add(c.Amount)
	}
	return total
}

// Involves reports whether userID bought or earned from this transaction.
func (tx *Transaction) Involves(userID string) bool {
	if tx.BuyerID == userID {
		return true
	}
	for _, c := range tx.Commissions {
		if c.ReceiverID == userID {
			return true
		}
	}
	return false
}

// digestBody is the hashed portion of a transaction: everything but Digest.
type digestBody struct {
	ID          string            `json:"id"`
	BuyerID     string            `json:"buyer_id"`
	BuyerName   string            `json:"buyer_name"`
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	Amount      money.Amount      `json:"amount"`
	Timestamp   time.Time         `json:"timestamp"`
	Commissions []CommissionEntry `json:"commissions"`
}

// ComputeDigest returns the chain digest of tx linked to prevDigest.
//
//	digest = hex(SHA256(SHA256(prev || json(body))))
//
// The hex form follows chainhash display order.
func ComputeDigest(tx *Transaction, prevDigest string) (string, error) {
	var prev []byte
	if prevDigest != "" {
		h, err := chainhash.NewHashFromHex(prevDigest)
		if err != nil {
			return "", fmt.Errorf("%w: previous digest: %w", ErrDigestMismatch, err)
		}
		prev = h.CloneBytes()
	}
	body, err := json.Marshal(digestBody{
		ID:          tx.ID,
		BuyerID:     tx.BuyerID,
		BuyerName:   tx.BuyerName,
		ProductID:   tx.ProductID,
		ProductName: tx.ProductName,
		Amount:      tx.Amount,
		Timestamp:   tx.Timestamp,
		Commissions: tx.Commissions,
	})
	if err != nil {
		return "", fmt.Errorf("ledger: encode transaction: %w", err)
	}
	return chainhash.DoubleHashH(append(prev, body...)).String(), nil
}

// Clone returns a deep copy of the transaction.
func (tx *Transaction) Clone() *Transaction {
	c := *tx
	if tx.Commissions != nil {
		c.Commissions = make([]CommissionEntry, len(tx.Commissions))
		copy(c.Commissions, tx.Commissions)
	}
	return &c
}
