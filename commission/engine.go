// Package commission pays a fixed percentage of each purchase up the
// buyer's sponsor chain.
//
// For a purchase of amount A by buyer B with rate table R of length N:
//
//	upline = first N sponsors above B (nearest first)
//	for level i in 1..len(upline):
//	    pay upline[i-1] A * R[i-1] / 100, if that is positive
//
// Levels beyond the end of the upline are simply not paid.
package commission

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bitfsorg/libreferral-go/catalog"
	"github.com/bitfsorg/libreferral-go/directory"
	"github.com/bitfsorg/libreferral-go/ledger"
	"github.com/bitfsorg/libreferral-go/money"
)

// Engine applies purchases against one loaded state. Build a fresh Engine
// per operation; it holds no state of its own.
type Engine struct {
	Directory *directory.Directory
	Catalog   *catalog.Catalog
	Ledger    *ledger.Ledger
	Rates     RateTable

	Now   func() time.Time // defaults to time.Now
	NewID func() string    // defaults to uuid.NewString
}

// Distribute computes the commission entries for amount paid by buyerID
// without applying them. Entries are in level order; zero payouts are omitted.
// A payout too large for an Amount returns money.ErrOverflow.
func Distribute(dir *directory.Directory, buyerID string, amount money.Amount, rates RateTable) ([]ledger.CommissionEntry, error) {
	upline := dir.ResolveUpline(buyerID, rates.Levels())
	entries := make([]ledger.CommissionEntry, 0, len(upline))
	for i, sponsor := range upline {
		rate := rates[i]
		paid, err := amount.MulRate(rate)
		if err != nil {
			return nil, fmt.Errorf("commission: level %d: %w", i+1, err)
		}
		if !paid.IsPositive() {
			continue
		}
		entries = append(entries, ledger.CommissionEntry{
			Level:        i + 1,
			ReceiverID:   sponsor.ID,
			ReceiverName: sponsor.Name,
			Amount:       paid,
			Rate:         rate,
		})
	}
	return entries, nil
}

// Quote returns the transaction a purchase would produce, without crediting
// anyone or touching the ledger. ID, timestamp and digests are left empty.
func (e *Engine) Quote(buyerID, productID string) (*ledger.Transaction, error) {
	buyer, product, err := e.resolve(buyerID, productID)
	if err != nil {
		return nil, err
	}
	return e.build(buyer, product)
}

// Purchase records buyerID buying productID and pays the upline.
//
// An unknown buyer or product is rejected before anything changes. Once
// credits start, each level is applied as it is computed; the caller owns
// whole-state atomicity (see referral.Service).
func (e *Engine) Purchase(buyerID, productID string) (*ledger.Transaction, error) {
	buyer, product, err := e.resolve(buyerID, productID)
	if err != nil {
		return nil, err
	}

	tx, err := e.build(buyer, product)
	if err != nil {
		return nil, err
	}
	tx.ID = e.newID()
	tx.Timestamp = e.now()

	for _, c := range tx.Commissions {
		if err := e.Directory.Credit(c.ReceiverID, c.Amount); err != nil {
			return nil, fmt.Errorf("commission: credit level %d: %w", c.Level, err)
		}
	}

	if err := e.Ledger.Append(tx); err != nil {
		return nil, fmt.Errorf("commission: record transaction: %w", err)
	}
	return tx, nil
}

func (e *Engine) resolve(buyerID, productID string) (*directory.User, *catalog.Product, error) {
	buyer, ok := e.Directory.Get(buyerID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownUser, buyerID)
	}
	product, ok := e.Catalog.Get(productID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
	}
	return buyer, product, nil
}

func (e *Engine) build(buyer *directory.User, product *catalog.Product) (*ledger.Transaction, error) {
	tx := &ledger.Transaction{
		BuyerID:     buyer.ID,
		BuyerName:   buyer.Name,
		ProductID:   product.ID,
		ProductName: product.Name,
		Amount:      product.Price,
		Commissions: []ledger.CommissionEntry{},
	}
	if product.Commissionable {
		entries, err := Distribute(e.Directory, buyer.ID, product.Price, e.Rates)
		if err != nil {
			return nil, err
		}
		tx.Commissions = entries
	}
	return tx, nil
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}

func (e *Engine) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}
