package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "phfwd",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 15), // 100µs to ~1.6s
		},
		[]string{"method"},
	)

	// Trie sizes are read under the read lock at scrape time.
	_ = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "phfwd",
			Subsystem: "trie",
			Name:      "rules",
			Help:      "Number of registered forwarding rules",
		},
		func() float64 {
			rules, _ := GLOBAL_FORWARD.Counts()
			return float64(rules)
		},
	)

	_ = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "phfwd",
			Subsystem: "trie",
			Name:      "nodes",
			Help:      "Number of trie nodes, root included",
		},
		func() float64 {
			_, nodes := GLOBAL_FORWARD.Counts()
			return float64(nodes)
		},
	)
)
