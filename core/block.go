package core

import (
	"time"
)

// Tick a point on the pool clock
//
// Step is a monotonically non decreasing counter of fixed length
// periods, Time the wall clock reading it was derived from.
type Tick struct {
	Step uint64    `json:"step"`
	Time time.Time `json:"time"`
}

// Clock source of ticks
type Clock interface {
	Now() Tick
}
