// Package sheet implements the repository interfaces over the flat files
// the prototype lives on: a patient roster CSV, a schedule workbook with
// doctors/availability/holidays sheets, a bookings workbook, and a
// communications log CSV.
package sheet

import (
	"time"

	"github.com/jwalitptl/clinic-scheduler/pkg/metrics"
)

// DefaultCacheTTL bounds how stale a cached parse of an input file may be.
const DefaultCacheTTL = 30 * time.Second

// cell returns row[i] or "" when excelize trimmed trailing empty cells.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func observe(m *metrics.Metrics, store, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StoreOperations.WithLabelValues(store, op, status).Inc()
	m.StoreLatency.WithLabelValues(store, op).Observe(time.Since(start).Seconds())
}
