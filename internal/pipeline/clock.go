package pipeline

import "time"

var processStart = time.Now()

// Clock reports time elapsed since process start. Every pattern reads the
// same clock so blinking gauges stay in phase.
type Clock interface {
	Elapsed() time.Duration
}

type processClock struct {
	start time.Time
}

func NewProcessClock() Clock {
	return processClock{start: processStart}
}

func (c processClock) Elapsed() time.Duration {
	return time.Since(c.start)
}

// FixedClock always reports the same elapsed time.
type FixedClock time.Duration

func (c FixedClock) Elapsed() time.Duration {
	return time.Duration(c)
}
