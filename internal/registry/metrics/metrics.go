package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registry feature counters.
type Metrics struct {
	IPsAllotted        prometheus.Counter
	DomainsAssigned    prometheus.Counter
	DomainsPurchased   prometheus.Counter
	DomainsTransferred prometheus.Counter
	ReadNotFound       *prometheus.CounterVec
	FeesCollected      prometheus.Counter
	FeesWithdrawn      prometheus.Counter
	FeeBalance         prometheus.Gauge
}

// New creates and registers all registry metrics.
func New() *Metrics {
	return &Metrics{
		IPsAllotted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namemarket_ips_allotted_total",
			Help: "Total IP records allotted.",
		}),
		DomainsAssigned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namemarket_domains_assigned_total",
			Help: "Total domain records assigned.",
		}),
		DomainsPurchased: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namemarket_domains_purchased_total",
			Help: "Total successful domain purchases.",
		}),
		DomainsTransferred: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namemarket_domains_transferred_total",
			Help: "Total successful domain transfers.",
		}),
		// The external error stays one opaque not-found; the cause label is
		// where operators see absent vs expired vs dangling.
		ReadNotFound: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "namemarket_domain_read_not_found_total",
			Help: "Domain reads that failed, by cause.",
		}, []string{"cause"}),
		FeesCollected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namemarket_fees_collected_total",
			Help: "Total fees collected from purchases, in base units.",
		}),
		FeesWithdrawn: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namemarket_fees_withdrawn_total",
			Help: "Total fees withdrawn by the admin, in base units.",
		}),
		FeeBalance: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "namemarket_fee_balance",
			Help: "Current fee ledger balance, in base units.",
		}),
	}
}
