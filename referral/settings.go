package referral

import (
	"fmt"

	"github.com/bitfsorg/libreferral-go/commission"
	"github.com/bitfsorg/libreferral-go/state"
	"github.com/bitfsorg/libreferral-go/store"
)

// Rates returns the current commission rate table.
func (s *Service) Rates() (commission.RateTable, error) {
	var rates commission.RateTable
	err := s.withReadLock(func(sess *session) error {
		rates = sess.doc.Settings.CommissionRates.Clone()
		return nil
	})
	return rates, err
}

// SetRates replaces the rate table with the given percentages, one per
// level. Past transactions keep the rates they were paid at.
//
// Under the admin policy a table summing past 100% is accepted with a
// warning; under the capped policy it is rejected.
func (s *Service) SetRates(values []string) (commission.RateTable, error) {
	rates, err := commission.ParseRates(values)
	if err != nil {
		return nil, err
	}
	if err := rates.Validate(s.ratePolicy); err != nil {
		return nil, err
	}

	var previous commission.RateTable
	err = s.withWriteLock(func(sess *session) error {
		previous = sess.doc.Settings.CommissionRates
		sess.doc.Settings.CommissionRates = rates.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("commission rates updated",
		"previous", previous.Strings(),
		"rates", rates.Strings(),
		"total", rates.Total().String())
	if rates.Exceeds100() {
		s.logger.Warn("commission rates sum to more than 100%", "total", rates.Total().String())
	}
	return rates, nil
}

// Reset replaces the whole document with the defaults: the admin root,
// the seed products, the default rate table and an empty ledger. The root
// keeps its join date, so resetting twice yields the same document.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServiceClosed
	}
	unlock, err := store.Lock(s.store)
	if err != nil {
		return fmt.Errorf("referral: lock store: %w", err)
	}
	defer unlock()

	joined := s.now()
	if doc, err := s.store.Load(); err == nil {
		for _, u := range doc.Users {
			if u.ID == state.RootID {
				joined = u.JoinedAt
				break
			}
		}
	}

	if err := s.store.Save(s.defaults(joined)); err != nil {
		return fmt.Errorf("referral: reset: %w", err)
	}
	s.logger.Warn("store reset to defaults")
	return nil
}

// VerifyLedger checks the digest chain of every recorded transaction.
func (s *Service) VerifyLedger() error {
	return s.withReadLock(func(sess *session) error {
		return sess.led.Verify()
	})
}
