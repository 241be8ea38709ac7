package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SessionStats provides the metrics collector access to live session state.
type SessionStats interface {
	Len() int
}

// Collector implements prometheus.Collector to read live gauges at scrape time.
type Collector struct {
	stats SessionStats

	activeSessions *prometheus.Desc
}

// NewCollector creates a collector that reads live state at scrape time.
// stats may be nil (the gauge will report 0).
func NewCollector(stats SessionStats) *Collector {
	return &Collector{
		stats: stats,
		activeSessions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "active_sessions"),
			"Current number of live editing sessions.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.activeSessions
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.stats != nil {
		ch <- prometheus.MustNewConstMetric(c.activeSessions, prometheus.GaugeValue, float64(c.stats.Len()))
	} else {
		ch <- prometheus.MustNewConstMetric(c.activeSessions, prometheus.GaugeValue, 0)
	}
}
