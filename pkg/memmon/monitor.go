// Package memmon implements the Memory Monitor (spec.md §4.C1): the
// sole backpressure signal the SPIMI indexer uses to decide when to
// flush its in-memory Postings Dictionary.
//
// The teacher's pkg/metrics.ResourceTracker samples runtime.MemStats on
// a background ticker and keeps rolling history; that model doesn't fit
// here; spec.md requires a stateless, cheap, synchronous check with no
// smoothing, and it asks for system-wide memory pressure (total versus
// available), not this process's heap. runtime.MemStats only reports
// the latter, so this package reads real host memory via gopsutil
// instead, the way sourcegraph-zoekt does for its own memory-aware
// indexing decisions.
package memmon

import (
	"github.com/shirou/gopsutil/v3/mem"
)

// Monitor reports whether current resident memory footprint is under a
// configured threshold. A Monitor holds no state between calls: each
// UnderThreshold call takes a fresh system memory reading.
type Monitor struct {
	threshold float64
}

// New creates a Monitor for the given threshold, a fraction in [0,1] of
// total system memory. Values outside that range are clamped rather
// than rejected here; config.Config.Validate is the fatal-error path.
func New(threshold float64) *Monitor {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}
	return &Monitor{threshold: threshold}
}

// UnderThreshold returns true iff (total-available)/total < threshold —
// the natural reading spec.md adopts in its Open Questions, flushing
// when the *used* fraction exceeds the configured threshold. This is
// the inverse of what the original Python source checked.
func (m *Monitor) UnderThreshold() (bool, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return false, err
	}
	if vm.Total == 0 {
		return true, nil
	}
	usedFraction := float64(vm.Total-vm.Available) / float64(vm.Total)
	return usedFraction < m.threshold, nil
}
