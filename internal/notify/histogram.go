package notify

import (
	"sync"
	"time"
)

const (
	bucketWidth = 250 * time.Millisecond
	maxBuckets  = 240
)

// RateHistogram counts arrivals in fixed-width time buckets, keeping the most
// recent minute of data. Buckets advance lazily on access, so quiet stretches
// are backfilled with zeros rather than collapsed.
type RateHistogram struct {
	mu       sync.Mutex
	buckets  []uint64
	lastTick time.Time
	now      func() time.Time
}

// NewRateHistogram constructs an empty histogram.
func NewRateHistogram() *RateHistogram {
	return &RateHistogram{now: time.Now}
}

// Record counts one arrival in the current bucket.
func (h *RateHistogram) Record() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.advance()
	h.buckets[len(h.buckets)-1]++
}

// Snapshot returns a copy of the buckets, oldest first.
func (h *RateHistogram) Snapshot() []uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.advance()
	return append([]uint64(nil), h.buckets...)
}

// advance rolls the histogram forward to now, appending a zero bucket per
// elapsed width and trimming the oldest beyond the cap. Callers hold mu.
func (h *RateHistogram) advance() {
	now := h.now()
	if h.lastTick.IsZero() {
		h.lastTick = now
		h.buckets = []uint64{0}
		return
	}
	for now.Sub(h.lastTick) >= bucketWidth {
		h.lastTick = h.lastTick.Add(bucketWidth)
		h.buckets = append(h.buckets, 0)
	}
	if n := len(h.buckets); n > maxBuckets {
		h.buckets = append([]uint64(nil), h.buckets[n-maxBuckets:]...)
	}
}
