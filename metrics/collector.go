// Package metrics exports filelog counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lixenwraith/filelog"
)

const namespace = "filelog"

// StatsSource is satisfied by *filelog.Logger
type StatsSource interface {
	Stats() filelog.Stats
}

// Collector reads a fresh snapshot on every scrape, counters are never duplicated
type Collector struct {
	source StatsSource

	processed      *prometheus.Desc
	dropped        *prometheus.Desc
	rotations      *prometheus.Desc
	deletions      *prometheus.Desc
	internalErrors *prometheus.Desc
	pending        *prometheus.Desc
	writeDisabled  *prometheus.Desc
	uptime         *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector, constLabels are attached to every series
func NewCollector(source StatsSource, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, constLabels)
	}
	return &Collector{
		source:         source,
		processed:      desc("entries_written_total", "Entries appended to log files."),
		dropped:        desc("entries_dropped_total", "Admitted entries lost to a storage failure."),
		rotations:      desc("rotations_total", "Active file switches caused by the size limit."),
		deletions:      desc("files_deleted_total", "Log files removed by retention or clear."),
		internalErrors: desc("internal_errors_total", "Diagnostics emitted by the logger."),
		pending:        desc("queue_pending", "Entries waiting for the writer."),
		writeDisabled:  desc("write_disabled", "1 when the log directory is unusable."),
		uptime:         desc("uptime_seconds", "Seconds since the logger was created."),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.processed
	ch <- c.dropped
	ch <- c.rotations
	ch <- c.deletions
	ch <- c.internalErrors
	ch <- c.pending
	ch <- c.writeDisabled
	ch <- c.uptime
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()

	ch <- prometheus.MustNewConstMetric(c.processed, prometheus.CounterValue, float64(s.Processed))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.Dropped))
	ch <- prometheus.MustNewConstMetric(c.rotations, prometheus.CounterValue, float64(s.Rotations))
	ch <- prometheus.MustNewConstMetric(c.deletions, prometheus.CounterValue, float64(s.Deletions))
	ch <- prometheus.MustNewConstMetric(c.internalErrors, prometheus.CounterValue, float64(s.InternalErrors))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(s.Pending))

	disabled := 0.0
	if s.WriteDisabled {
		disabled = 1
	}
	ch <- prometheus.MustNewConstMetric(c.writeDisabled, prometheus.GaugeValue, disabled)
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, s.Uptime.Seconds())
}

// Register creates a collector for source and registers it with reg
func Register(reg prometheus.Registerer, source StatsSource, constLabels prometheus.Labels) (*Collector, error) {
	c := NewCollector(source, constLabels)
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
