// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "audiobook_librarian"

// Placement outcomes.
const (
	OutcomeLinked = "linked"
	OutcomeFailed = "failed"
	OutcomeDryRun = "dry_run"
)

var (
	registerOnce sync.Once

	foldersScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "folders_scanned_total",
		Help:      "Total number of book folders scanned",
	})
	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "metadata_cache_lookups_total",
		Help:      "Metadata cache lookups by result (hit or miss)",
	}, []string{"result"})
	booksGrouped = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "books_grouped",
		Help:      "Logical books produced by the last grouping pass",
	})
	placements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "placements_total",
		Help:      "Total number of file placements by kind and outcome",
	}, []string{"kind", "outcome"})
	leftbehindFiles = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leftbehind_files_total",
		Help:      "Total number of files linked into the leftbehind tree",
	})
	phaseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "phase_duration_seconds",
		Help:      "Histogram of run phase durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"phase"})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(foldersScanned, cacheLookups, booksGrouped, placements, leftbehindFiles, phaseDuration)
	})
}

func IncFoldersScanned()                { foldersScanned.Inc() }
func IncCacheLookup(result string)      { cacheLookups.WithLabelValues(result).Inc() }
func SetBooksGrouped(n int)             { booksGrouped.Set(float64(n)) }
func IncPlacement(kind, outcome string) { placements.WithLabelValues(kind, outcome).Inc() }
func IncLeftbehind()                    { leftbehindFiles.Inc() }
func ObservePhase(phase string, d time.Duration) {
	phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// Timer returns a func that records the elapsed time for phase when called.
func Timer(phase string) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		d := time.Since(start)
		ObservePhase(phase, d)
		return d
	}
}

// WriteTextfile dumps the default registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
