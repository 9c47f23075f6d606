// Package referral is the service layer over the referral ledger. Each call
// loads the persisted document, applies one operation and saves the result,
// all under a single lock, so no caller observes a half-applied purchase.
package referral

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bitfsorg/libreferral-go/catalog"
	"github.com/bitfsorg/libreferral-go/commission"
	"github.com/bitfsorg/libreferral-go/config"
	"github.com/bitfsorg/libreferral-go/directory"
	"github.com/bitfsorg/libreferral-go/ledger"
	"github.com/bitfsorg/libreferral-go/logging"
	"github.com/bitfsorg/libreferral-go/metrics"
	"github.com/bitfsorg/libreferral-go/state"
	"github.com/bitfsorg/libreferral-go/store"
)

// Service serializes every operation on one store.
type Service struct {
	mu     sync.Mutex
	closed bool

	store       store.Store
	sponsorMode directory.SponsorMode
	ratePolicy  commission.RatePolicy
	seed        []*catalog.Product // products written by Reset

	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
	newID   func() string

	closers []io.Closer // released by Close, in order
}

// Option customizes a Service built by Open.
type Option func(*Service)

// WithStore uses s instead of the store named by the configuration. The
// service takes ownership and closes it.
func WithStore(s store.Store) Option {
	return func(svc *Service) { svc.store = s }
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) { svc.logger = l }
}

// WithMetrics records operations on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(svc *Service) { svc.metrics = r }
}

// WithClock sets the time source for join dates, transaction timestamps
// and Reset.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// WithIDGenerator sets the generator for user and transaction IDs.
func WithIDGenerator(newID func() string) Option {
	return func(svc *Service) { svc.newID = newID }
}

// OpenDir opens the service for dataDir using the config file inside it,
// or the defaults when there is none.
func OpenDir(dataDir string, opts ...Option) (*Service, error) {
	cfg, err := config.LoadConfig(config.ConfigPath(dataDir))
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("referral: %w", err)
	}
	cfg.DataDir = dataDir
	return Open(cfg, opts...)
}

// Open validates cfg, opens its store and makes sure a document exists.
//
// An empty store is initialized with the defaults. A corrupt store is
// reinitialized only when cfg.ResetOnCorrupt is set; otherwise the
// store.ErrCorruptState error is returned.
func Open(cfg config.Config, opts ...Option) (*Service, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	mode, err := directory.ParseSponsorMode(cfg.SponsorMode)
	if err != nil {
		return nil, err
	}
	policy, err := commission.ParseRatePolicy(cfg.RatePolicy)
	if err != nil {
		return nil, err
	}

	s := &Service{
		sponsorMode: mode,
		ratePolicy:  policy,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		logger, closer, err := logging.Open("referral", cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("referral: %w", err)
		}
		s.logger = logger
		s.closers = append(s.closers, closer)
	}

	if s.store == nil {
		st, err := openStore(cfg)
		if err != nil {
			s.release()
			return nil, err
		}
		s.store = st
	}

	s.seed = catalog.DefaultProducts()
	if cfg.CatalogFile != "" {
		products, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			s.closeAll()
			return nil, fmt.Errorf("referral: load catalog: %w", err)
		}
		s.seed = products
	}

	if err := s.bootstrap(cfg.ResetOnCorrupt); err != nil {
		s.closeAll()
		return nil, err
	}
	return s, nil
}

func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.Store {
	case config.StoreBolt:
		return store.OpenBoltStore(cfg.StorePath())
	case config.StoreFile:
		return store.NewFileStore(cfg.StorePath())
	case config.StoreMemory:
		return store.NewMemStore(), nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrInvalidStore, cfg.Store)
}

// bootstrap makes sure the store holds a usable document and reports any
// sponsor graph or digest chain damage it finds.
func (s *Service) bootstrap(resetOnCorrupt bool) error {
	unlock, err := store.Lock(s.store)
	if err != nil {
		return fmt.Errorf("referral: lock store: %w", err)
	}
	defer unlock()

	doc, err := s.store.Load()
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNoDocument):
		s.logger.Info("initializing empty store with defaults")
		doc = s.defaults(s.now())
		if err := s.store.Save(doc); err != nil {
			return fmt.Errorf("referral: initialize store: %w", err)
		}
	case errors.Is(err, store.ErrCorruptState) && resetOnCorrupt:
		s.logger.Warn("stored document is corrupt, resetting to defaults", "error", err)
		doc = s.defaults(s.now())
		if err := s.store.Save(doc); err != nil {
			return fmt.Errorf("referral: reset corrupt store: %w", err)
		}
	default:
		return fmt.Errorf("referral: load store: %w", err)
	}

	sess, err := s.session(doc)
	if err != nil {
		return err
	}
	if err := sess.dir.CheckForest(); err != nil {
		s.logger.Warn("sponsor relation is damaged", "error", err)
	}
	if err := sess.led.Verify(); err != nil {
		s.logger.Warn("ledger digest chain is damaged", "error", err)
	}
	return nil
}

func (s *Service) defaults(rootJoined time.Time) *state.Document {
	doc := state.Defaults(rootJoined)
	doc.Products = cloneProducts(s.seed)
	return doc
}

func cloneProducts(in []*catalog.Product) []*catalog.Product {
	out := make([]*catalog.Product, len(in))
	for i, p := range in {
		cp := *p
		out[i] = &cp
	}
	return out
}

// session is the in-memory view of one loaded document.
type session struct {
	doc *state.Document
	dir *directory.Directory
	cat *catalog.Catalog
	led *ledger.Ledger
}

func (s *Service) session(doc *state.Document) (*session, error) {
	dir, err := directory.New(doc.Users, s.sponsorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrCorruptState, err)
	}
	dir.Now = s.now
	dir.NewID = s.newID
	dir.Logger = s.logger

	cat, err := catalog.New(doc.Products)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrCorruptState, err)
	}
	led, err := ledger.New(doc.Transactions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrCorruptState, err)
	}
	return &session{doc: doc, dir: dir, cat: cat, led: led}, nil
}

func (sess *session) engine(s *Service) *commission.Engine {
	return &commission.Engine{
		Directory: sess.dir,
		Catalog:   sess.cat,
		Ledger:    sess.led,
		Rates:     sess.doc.Settings.CommissionRates,
		Now:       s.now,
		NewID:     s.newID,
	}
}

// sync copies arena contents back into the document before it is saved.
func (sess *session) sync() {
	sess.doc.Users = sess.dir.Users()
	sess.doc.Transactions = sess.led.Transactions()
}

// withReadLock loads the current document and runs fn against it. The
// store lock is held so a writer in another process cannot save midway.
func (s *Service) withReadLock(fn func(*session) error) error {
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

	doc, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("referral: load store: %w", err)
	}
	sess, err := s.session(doc)
	if err != nil {
		return err
	}
	return fn(sess)
}

// withWriteLock loads the current document, runs fn against it and saves
// the result when fn returns nil. A failing fn leaves the store untouched.
// The store lock is held from load to save, so writers sharing the store
// from other processes cannot overwrite each other.
func (s *Service) withWriteLock(fn func(*session) error) error {
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

	doc, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("referral: load store: %w", err)
	}
	sess, err := s.session(doc)
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	sess.sync()
	if err := s.store.Save(sess.doc); err != nil {
		return fmt.Errorf("referral: save store: %w", err)
	}
	return nil
}

// Close releases the store and any log file. Later calls return
// ErrServiceClosed.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.closeAll()
}

func (s *Service) closeAll() error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.release(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// release closes the non-store resources.
func (s *Service) release() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
