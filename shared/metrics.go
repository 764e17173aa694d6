package shared

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/philipp01105/swaplog/core"
	"github.com/philipp01105/swaplog/handler"
)

// Collector exports a Logger's swap and reclamation counters to
// Prometheus. Register it with prometheus.MustRegister.
type Collector struct {
	l         Logger
	swaps     *prometheus.Desc
	retired   *prometheus.Desc
	reclaimed *prometheus.Desc
	pending   *prometheus.Desc
	epoch     *prometheus.Desc

	records   *handler.Stats
	processed *prometheus.Desc
	dropped   *prometheus.Desc
	blocked   *prometheus.Desc
	failed    *prometheus.Desc
}

// NewCollector returns a collector reading l's stats on every scrape.
// constLabels tell several handles apart; it may be nil.
func NewCollector(l Logger, constLabels prometheus.Labels) *Collector {
	return &Collector{
		l: l,
		swaps: prometheus.NewDesc("swaplog_swaps_total",
			"Total backends published by SetColorChoice or Swap.", nil, constLabels),
		retired: prometheus.NewDesc("swaplog_backends_retired_total",
			"Total backends retired for deferred close.", nil, constLabels),
		reclaimed: prometheus.NewDesc("swaplog_backends_reclaimed_total",
			"Total retired backends closed after their readers finished.", nil, constLabels),
		pending: prometheus.NewDesc("swaplog_backends_pending",
			"Retired backends waiting to be closed.", nil, constLabels),
		epoch: prometheus.NewDesc("swaplog_epoch",
			"Current reclamation epoch.", nil, constLabels),
		processed: prometheus.NewDesc("swaplog_records_written_total",
			"Records written by backend handlers.", nil, constLabels),
		dropped: prometheus.NewDesc("swaplog_records_dropped_total",
			"Records dropped because an async queue was full.", []string{"level"}, constLabels),
		blocked: prometheus.NewDesc("swaplog_records_blocked_total",
			"Records that waited for space in an async queue.", nil, constLabels),
		failed: prometheus.NewDesc("swaplog_write_failures_total",
			"Records a handler failed to write.", nil, constLabels),
	}
}

// WithRecords adds the handler counters in st, which every backend the
// factory builds should share (see envlog.Builder.Stats).
func (c *Collector) WithRecords(st *handler.Stats) *Collector {
	c.records = st
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.swaps
	ch <- c.retired
	ch <- c.reclaimed
	ch <- c.pending
	ch <- c.epoch
	if c.records != nil {
		ch <- c.processed
		ch <- c.dropped
		ch <- c.blocked
		ch <- c.failed
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.l.Stats()
	ch <- prometheus.MustNewConstMetric(c.swaps, prometheus.CounterValue, float64(st.Swaps))
	ch <- prometheus.MustNewConstMetric(c.retired, prometheus.CounterValue, float64(st.Retired))
	ch <- prometheus.MustNewConstMetric(c.reclaimed, prometheus.CounterValue, float64(st.Reclaimed))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(st.Pending()))
	ch <- prometheus.MustNewConstMetric(c.epoch, prometheus.GaugeValue, float64(st.Epoch))

	if c.records == nil {
		return
	}
	snap := c.records.GetSnapshot()
	ch <- prometheus.MustNewConstMetric(c.processed, prometheus.CounterValue, float64(snap.ProcessedTotal))
	for lvl := core.TraceLevel; lvl <= core.PanicLevel; lvl++ {
		ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue,
			float64(snap.DroppedTotal[lvl]), core.FilterFor(lvl).String())
	}
	ch <- prometheus.MustNewConstMetric(c.blocked, prometheus.CounterValue, float64(snap.BlockedTotal))
	ch <- prometheus.MustNewConstMetric(c.failed, prometheus.CounterValue, float64(snap.FailedTotal))
}
