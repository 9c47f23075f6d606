// Package state defines the single persisted document that holds the whole
// referral ledger, and its validation at the persistence boundary.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bitfsorg/libreferral-go/catalog"
	"github.com/bitfsorg/libreferral-go/commission"
	"github.com/bitfsorg/libreferral-go/directory"
	"github.com/bitfsorg/libreferral-go/ledger"
)

const (
	// RootID is the fixed ID of the root user created by Defaults.
	RootID = "root"

	rootUsername = "admin"
	rootPassword = "admin"
	rootName     = "System Admin"
)

// Document is the full persisted state.
type Document struct {
	Users        []*directory.User     `json:"users"`
	Products     []*catalog.Product    `json:"products"`
	Settings     Settings              `json:"settings"`
	Transactions []*ledger.Transaction `json:"transactions"` // oldest first
}

// Settings holds administrator-tunable parameters.
type Settings struct {
	CommissionRates commission.RateTable `json:"commission_rates"`
}

// Defaults returns the initial document: one admin root user, the reference
// products, the five-level default rate table and an empty ledger. Calling
// it twice with the same time yields equal documents.
func Defaults(now time.Time) *Document {
	return &Document{
		Users: []*directory.User{{
			ID:         RootID,
			Username:   rootUsername,
			Credential: directory.HashCredential(RootID, rootPassword),
			Name:       rootName,
			Role:       directory.RoleAdmin,
			JoinedAt:   now.UTC(),
		}},
		Products:     catalog.DefaultProducts(),
		Settings:     Settings{CommissionRates: commission.DefaultRates.Clone()},
		Transactions: []*ledger.Transaction{},
	}
}

// Encode serializes the document as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidDocument)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("state: marshal document: %w", err)
	}
	return data, nil
}

// Decode parses and validates a document. Unknown fields, trailing data and
// missing required fields are rejected rather than tolerated.
func Decode(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrInvalidDocument)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Clone returns a deep copy of the document via its encoded form.
func (d *Document) Clone() (*Document, error) {
	data, err := Encode(d)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Validate checks record-level invariants: required fields present, keys
// unique, amounts and rates non-negative. Sponsor graph shape is checked
// separately by directory.CheckForest, since the upline walk tolerates
// broken chains.
func (d *Document) Validate() error {
	if d.Users == nil || d.Products == nil || d.Settings.CommissionRates == nil || d.Transactions == nil {
		return fmt.Errorf("%w: users, products, settings.commission_rates and transactions are required", ErrInvalidDocument)
	}

	if err := validateUsers(d.Users); err != nil {
		return err
	}
	if _, err := catalog.New(d.Products); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := d.Settings.CommissionRates.Validate(commission.RatePolicyAdmin); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return validateTransactions(d.Transactions)
}

func validateUsers(users []*directory.User) error {
	for i, u := range users {
		if u == nil {
			return fmt.Errorf("%w: user %d is null", ErrInvalidDocument, i)
		}
		if u.ID == "" || u.Username == "" || u.Credential == "" {
			return fmt.Errorf("%w: user %d missing id, username or credential", ErrInvalidDocument, i)
		}
		if u.Role != directory.RoleAdmin && u.Role != directory.RoleMember {
			return fmt.Errorf("%w: user %q has role %q", ErrInvalidDocument, u.ID, u.Role)
		}
		if u.JoinedAt.IsZero() {
			return fmt.Errorf("%w: user %q missing joined_at", ErrInvalidDocument, u.ID)
		}
		if u.Balance.IsNegative() || u.TotalEarnings.IsNegative() {
			return fmt.Errorf("%w: user %q has a negative balance", ErrInvalidDocument, u.ID)
		}
	}
	if _, err := directory.New(users, directory.SponsorStrict); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return nil
}

func validateTransactions(txs []*ledger.Transaction) error {
	for i, tx := range txs {
		if tx == nil {
			return fmt.Errorf("%w: transaction %d is null", ErrInvalidDocument, i)
		}
		if tx.ID == "" || tx.BuyerID == "" || tx.ProductID == "" || tx.Digest == "" || tx.Timestamp.IsZero() {
			return fmt.Errorf("%w: transaction %d missing required fields", ErrInvalidDocument, i)
		}
		if tx.Commissions == nil {
			return fmt.Errorf("%w: transaction %q missing commissions", ErrInvalidDocument, tx.ID)
		}
		for j, c := range tx.Commissions {
			if c.Level < 1 || c.ReceiverID == "" || !c.Amount.IsPositive() {
				return fmt.Errorf("%w: transaction %q commission %d malformed", ErrInvalidDocument, tx.ID, j)
			}
		}
	}
	if _, err := ledger.New(txs); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return nil
}
