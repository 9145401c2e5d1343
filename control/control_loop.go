// Package control runs work at a fixed frequency.
package control

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/services/locator"
)

// MaxFrequency is the fastest a loop may run, in Hz.
const MaxFrequency = 200.0

// Config describes how often a loop runs.
type Config struct {
	Frequency float64 `json:"frequency_hz"`
}

// Validate ensures the frequency is in (0, MaxFrequency].
func (cfg Config) Validate() error {
	if !(cfg.Frequency > 0) || cfg.Frequency > MaxFrequency {
		return errors.Errorf("loop frequency must be in (0, %v] Hz, not %v", MaxFrequency, cfg.Frequency)
	}
	return nil
}

// A CycleFunc is called once per cycle with the zero-based cycle index.
type CycleFunc func(ctx context.Context, cycle int) error

// Loop calls a CycleFunc at a fixed frequency. Cycles never overlap: a cycle that runs longer
// than the period delays the next one instead of queueing it.
type Loop struct {
	cfg    Config
	dt     time.Duration
	clock  clock.Clock
	cycle  CycleFunc
	logger logging.Logger

	mu                      sync.Mutex
	completed               int
	running                 bool
	cancel                  context.CancelFunc
	runErr                  error
	activeBackgroundWorkers sync.WaitGroup
}

// NewLoop constructs a loop that calls cycle at cfg.Frequency using the wall clock.
func NewLoop(logger logging.Logger, cfg Config, cycle CycleFunc) (*Loop, error) {
	return NewLoopWithClock(logger, cfg, cycle, clock.New())
}

// NewLoopWithClock is like NewLoop but ticks with the given clock.
func NewLoopWithClock(logger logging.Logger, cfg Config, cycle CycleFunc, clk clock.Clock) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, errors.New("loop needs a cycle function")
	}
	return &Loop{
		cfg:    cfg,
		dt:     time.Duration(float64(time.Second) / cfg.Frequency),
		clock:  clk,
		cycle:  cycle,
		logger: logger,
	}, nil
}

// Period returns the time between the start of two cycles.
func (l *Loop) Period() time.Duration {
	return l.dt
}

// Frequency returns the loop's frequency.
func (l *Loop) Frequency() float64 {
	return l.cfg.Frequency
}

// Completed returns how many cycles have finished since the loop was created.
func (l *Loop) Completed() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.completed
}

// Run calls the cycle function cycles times, or until ctx is done when cycles is zero. The first
// cycle runs immediately and each following one waits for the next tick. A locator that cannot
// see its target only skips that cycle's update and is logged at debug; any other error ends the
// run.
func (l *Loop) Run(ctx context.Context, cycles int) error {
	if cycles < 0 {
		return errors.Errorf("cycle count must not be negative, not %d", cycles)
	}
	runID := uuid.New()
	logger := l.logger.AsZap().With("run", runID.String())
	logger.Infow("running loop", "frequency_hz", l.cfg.Frequency, "period", l.dt, "cycles", cycles)

	ticker := l.clock.Ticker(l.dt)
	defer ticker.Stop()

	for i := 0; cycles == 0 || i < cycles; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.cycle(ctx, i); err != nil {
			if locErr, ok := locator.IsLocatorError(err); ok {
				logger.Debugw("no location this cycle", "cycle", i, "reason", locErr.Reason)
			} else {
				return errors.Wrapf(err, "cycle %d", i)
			}
		}
		l.mu.Lock()
		l.completed++
		l.mu.Unlock()
	}
	logger.Debugw("loop finished", "cycles", cycles)
	return nil
}

// Start runs the loop in the background until Stop is called or a cycle fails.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return errors.New("loop is already running")
	}
	cancelCtx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.running = true
	l.runErr = nil
	l.activeBackgroundWorkers.Add(1)
	utils.ManagedGo(func() {
		err := l.Run(cancelCtx, 0)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		l.mu.Lock()
		l.runErr = err
		l.mu.Unlock()
	}, l.activeBackgroundWorkers.Done)
	return nil
}

// Stop stops a loop started with Start and returns the error that ended it, if any.
func (l *Loop) Stop() error {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return nil
	}
	l.running = false
	cancel := l.cancel
	l.mu.Unlock()

	l.logger.Debug("stopping loop")
	cancel()
	l.activeBackgroundWorkers.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.runErr
}
