package decompiler

import (
	"sync/atomic"
	"time"
)

// Metrics receives one observation per decode call. Implementations must be
// safe for concurrent use when shared between goroutines.
type Metrics interface {
	ObserveDecode(chars int, elapsed time.Duration, err error)
}

// Stats is a Metrics sink backed by atomic counters.
type Stats struct {
	decodes  atomic.Int64
	failures atomic.Int64
	chars    atomic.Int64
	nanos    atomic.Int64
}

// ObserveDecode implements Metrics.
func (s *Stats) ObserveDecode(chars int, elapsed time.Duration, err error) {
	s.decodes.Add(1)
	if err != nil {
		s.failures.Add(1)
		return
	}
	s.chars.Add(int64(chars))
	s.nanos.Add(int64(elapsed))
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Decodes  int64
	Failures int64
	Chars    int64
	Elapsed  time.Duration
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Decodes:  s.decodes.Load(),
		Failures: s.failures.Load(),
		Chars:    s.chars.Load(),
		Elapsed:  time.Duration(s.nanos.Load()),
	}
}
