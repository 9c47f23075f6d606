package referral

import (
	"fmt"

	"github.com/bitfsorg/libreferral-go/directory"
	"github.com/bitfsorg/libreferral-go/logging"
)

// Register adds a member under sponsorID. What happens when sponsorID does
// not exist depends on the configured sponsor mode.
func (s *Service) Register(username, password, name, sponsorID string) (*directory.User, error) {
	var user *directory.User
	err := s.withWriteLock(func(sess *session) error {
		u, err := sess.dir.Register(username, password, name, sponsorID)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveRegistration(string(s.sponsorMode))
	s.logger.Info("user registered",
		"user_id", user.ID,
		"username", user.Username,
		"sponsor_id", user.SponsorID,
		logging.MaskField("credential", user.Credential))
	return user, nil
}

// Authenticate returns the user whose username and password both match.
func (s *Service) Authenticate(username, password string) (*directory.User, error) {
	var user *directory.User
	err := s.withReadLock(func(sess *session) error {
		u, err := sess.dir.Authenticate(username, password)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// User returns the user with the given ID.
func (s *Service) User(id string) (*directory.User, error) {
	var user *directory.User
	err := s.withReadLock(func(sess *session) error {
		u, ok := sess.dir.Get(id)
		if !ok {
			return fmt.Errorf("%w: %q", directory.ErrUnknownUser, id)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Users returns every user in registration order.
func (s *Service) Users() ([]*directory.User, error) {
	var users []*directory.User
	err := s.withReadLock(func(sess *session) error {
		users = sess.dir.Users()
		return nil
	})
	return users, err
}

// DirectReports returns the users sponsored by userID.
func (s *Service) DirectReports(userID string) ([]*directory.User, error) {
	var users []*directory.User
	err := s.withReadLock(func(sess *session) error {
		if _, ok := sess.dir.Get(userID); !ok {
			return fmt.Errorf("%w: %q", directory.ErrUnknownUser, userID)
		}
		users = sess.dir.DirectReports(userID)
		return nil
	})
	return users, err
}

// Upline returns the sponsors above userID that the current rate table
// would pay, nearest first.
func (s *Service) Upline(userID string) ([]*directory.User, error) {
	var users []*directory.User
	err := s.withReadLock(func(sess *session) error {
		if _, ok := sess.dir.Get(userID); !ok {
			return fmt.Errorf("%w: %q", directory.ErrUnknownUser, userID)
		}
		users = sess.dir.ResolveUpline(userID, sess.doc.Settings.CommissionRates.Levels())
		return nil
	})
	return users, err
}
