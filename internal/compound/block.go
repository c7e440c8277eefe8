package compound

import (
	"errors"
	"sync"
	"time"

	"lendpool/core"
)

// CurrentBlock step number of t counted from genesis
func CurrentBlock(t time.Time, secondsPerBlock, genesis int64) (uint64, error) {
	if secondsPerBlock <= 0 {
		return 0, errors.New("secondsPerBlock should not be less than or equal zero")
	}

	seconds := t.UTC().Unix() - genesis
	if seconds <= 0 {
		return 0, errors.New("invalid blocks")
	}

	return uint64(seconds / secondsPerBlock), nil
}

// BlockClock wall clock split into fixed length steps since genesis
type BlockClock struct {
	Genesis         int64
	SecondsPerBlock int64
}

// NewBlockClock new block clock
func NewBlockClock(genesis, secondsPerBlock int64) *BlockClock {
	return &BlockClock{Genesis: genesis, SecondsPerBlock: secondsPerBlock}
}

// Now current tick, step zero before genesis
func (c *BlockClock) Now() core.Tick {
	now := time.Now()
	step, _ := CurrentBlock(now, c.SecondsPerBlock, c.Genesis)
	return core.Tick{Step: step, Time: now}
}

// ManualClock clock moved by hand
type ManualClock struct {
	mu   sync.Mutex
	tick core.Tick
	dur  time.Duration
}

// NewManualClock starts at step with steps of d
func NewManualClock(start time.Time, step uint64, d time.Duration) *ManualClock {
	return &ManualClock{
		tick: core.Tick{Step: step, Time: start},
		dur:  d,
	}
}

// Now current tick
func (c *ManualClock) Now() core.Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick
}

// Advance moves the clock n steps forward
func (c *ManualClock) Advance(n uint64) core.Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick.Step += n
	c.tick.Time = c.tick.Time.Add(time.Duration(n) * c.dur)
	return c.tick
}

// Sleep moves wall time forward within the current step
func (c *ManualClock) Sleep(d time.Duration) core.Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick.Time = c.tick.Time.Add(d)
	return c.tick
}
