package board

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Save outcomes used as the status label of savesTotal.
const (
	saveOK      = "ok"
	saveError   = "error"
	saveRemoved = "removed"
)

var (
	savesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardstore_saves_total",
		Help: "Board flushes by outcome",
	}, []string{"status"})

	saveBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "boardstore_save_bytes",
		Help:    "Size of serialized boards written to disk",
		Buckets: prometheus.ExponentialBuckets(256, 4, 10),
	})

	evictedItemsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boardstore_evicted_items_total",
		Help: "Items removed to keep boards under the item ceiling",
	})

	quarantinedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boardstore_quarantined_files_total",
		Help: "Unreadable board files copied aside on load",
	})

	openBoards = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "boardstore_open_boards",
		Help: "Boards currently held by registries",
	})
)
