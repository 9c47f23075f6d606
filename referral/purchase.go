package referral

import (
	"fmt"

	"github.com/bitfsorg/libreferral-go/catalog"
	"github.com/bitfsorg/libreferral-go/directory"
	"github.com/bitfsorg/libreferral-go/ledger"
)

// Products returns the catalog in its configured order.
func (s *Service) Products() ([]*catalog.Product, error) {
	var products []*catalog.Product
	err := s.withReadLock(func(sess *session) error {
		products = sess.cat.List()
		return nil
	})
	return products, err
}

// Product returns the product with the given ID.
func (s *Service) Product(id string) (*catalog.Product, error) {
	var product *catalog.Product
	err := s.withReadLock(func(sess *session) error {
		p, ok := sess.cat.Get(id)
		if !ok {
			return fmt.Errorf("%w: %q", catalog.ErrUnknownProduct, id)
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Purchase records buyerID buying productID and credits the upline. The
// new balances and the transaction are saved together; on any error
// nothing is saved.
func (s *Service) Purchase(buyerID, productID string) (*ledger.Transaction, error) {
	var tx *ledger.Transaction
	err := s.withWriteLock(func(sess *session) error {
		t, err := sess.engine(s).Purchase(buyerID, productID)
		if err != nil {
			return err
		}
		tx = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObservePurchase(tx)
	s.logger.Info("purchase recorded",
		"tx_id", tx.ID,
		"buyer_id", tx.BuyerID,
		"product_id", tx.ProductID,
		"amount", tx.Amount.String(),
		"commissions", len(tx.Commissions),
		"commission_total", tx.CommissionTotal().String())
	return tx, nil
}

// Quote returns the transaction Purchase would record, without changing
// any balance or the ledger.
func (s *Service) Quote(buyerID, productID string) (*ledger.Transaction, error) {
	var tx *ledger.Transaction
	err := s.withReadLock(func(sess *session) error {
		t, err := sess.engine(s).Quote(buyerID, productID)
		if err != nil {
			return err
		}
		tx = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Transactions returns every transaction, most recent first.
func (s *Service) Transactions() ([]*ledger.Transaction, error) {
	var txs []*ledger.Transaction
	err := s.withReadLock(func(sess *session) error {
		txs = sess.led.ListAll()
		return nil
	})
	return txs, err
}

// TransactionsFor returns the transactions userID bought or earned from,
// most recent first.
func (s *Service) TransactionsFor(userID string) ([]*ledger.Transaction, error) {
	var txs []*ledger.Transaction
	err := s.withReadLock(func(sess *session) error {
		if _, ok := sess.dir.Get(userID); !ok {
			return fmt.Errorf("%w: %q", directory.ErrUnknownUser, userID)
		}
		txs = sess.led.ListFor(userID)
		return nil
	})
	return txs, err
}

// Transaction returns the transaction with the given ID.
func (s *Service) Transaction(id string) (*ledger.Transaction, error) {
	var tx *ledger.Transaction
	err := s.withReadLock(func(sess *session) error {
		t, err := sess.led.Get(id)
		if err != nil {
			return err
		}
		tx = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}
