// Package metrics exposes Prometheus counters for purchases, commission
// payouts and registrations.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitfsorg/libreferral-go/ledger"
)

// Recorder holds the referral collectors. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	purchases         *prometheus.CounterVec
	commissionEntries *prometheus.CounterVec
	commissionPaid    prometheus.Counter
	registrations     *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg. A nil
// reg leaves them unregistered, which is useful in tests.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "referral_purchases_total",
			Help: "Count of recorded purchases by product.",
		}, []string{"product"}),
		commissionEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "referral_commission_entries_total",
			Help: "Count of commission entries paid by upline level.",
		}, []string{"level"}),
		commissionPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "referral_commission_paid_total",
			Help: "Sum of commission amounts paid, in currency units.",
		}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "referral_registrations_total",
			Help: "Count of registered users by sponsor mode.",
		}, []string{"sponsor_mode"}),
	}
	if reg == nil {
		return r, nil
	}
	for _, c := range []prometheus.Collector{r.purchases, r.commissionEntries, r.commissionPaid, r.registrations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObservePurchase records tx and each of its commission entries.
func (r *Recorder) ObservePurchase(tx *ledger.Transaction) {
	if r == nil || tx == nil {
		return
	}
	product := tx.ProductID
	if product == "" {
		product = "unknown"
	}
	r.purchases.WithLabelValues(product).Inc()
	for _, c := range tx.Commissions {
		r.commissionEntries.WithLabelValues(strconv.Itoa(c.Level)).Inc()
	}
	if total := tx.CommissionTotal(); total.IsPositive() {
		r.commissionPaid.Add(total.Decimal().InexactFloat64())
	}
}

// ObserveRegistration records a new user registered under mode.
func (r *Recorder) ObserveRegistration(mode string) {
	if r == nil {
		return
	}
	if mode == "" {
		mode = "unknown"
	}
	r.registrations.WithLabelValues(mode).Inc()
}
