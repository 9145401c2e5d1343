package control

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/test"
	gotestutils "go.viam.com/utils/testutils"

	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/services/locator"
	"go.viam.com/fieldbot/testutils"
)

func TestMain(m *testing.M) {
	testutils.VerifyTestMain(m)
}

type cycleRecorder struct {
	mu     sync.Mutex
	cycles []int
	errAt  map[int]error
}

func (r *cycleRecorder) cycle(ctx context.Context, cycle int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cycles = append(r.cycles, cycle)
	return r.errAt[cycle]
}

func (r *cycleRecorder) seen() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.cycles...)
}

func TestNewLoop(t *testing.T) {
	logger := logging.NewTestLogger(t)
	noop := func(ctx context.Context, cycle int) error { return nil }

	for _, freq := range []float64{0, -1, 200.5} {
		_, err := NewLoop(logger, Config{Frequency: freq}, noop)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "loop frequency must be in (0, 200] Hz")
	}

	_, err := NewLoop(logger, Config{Frequency: 10}, nil)
	test.That(t, err, test.ShouldBeError, errors.New("loop needs a cycle function"))

	l, err := NewLoop(logger, Config{Frequency: 200}, noop)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, l.Period(), test.ShouldEqual, 5*time.Millisecond)
	test.That(t, l.Frequency(), test.ShouldEqual, 200.0)
}

func TestRunCycles(t *testing.T) {
	logger := logging.NewTestLogger(t)
	mock := clock.NewMock()
	rec := &cycleRecorder{}
	l, err := NewLoopWithClock(logger, Config{Frequency: 50}, rec.cycle, mock)
	test.That(t, err, test.ShouldBeNil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Run(context.Background(), 3)
	}()

	gotestutils.WaitForAssertion(t, func(tb testing.TB) {
		mock.Add(l.Period())
		test.That(tb, l.Completed(), test.ShouldEqual, 3)
	})
	test.That(t, <-errCh, test.ShouldBeNil)
	test.That(t, rec.seen(), test.ShouldResemble, []int{0, 1, 2})

	err = l.Run(context.Background(), -1)
	test.That(t, err, test.ShouldBeError, errors.New("cycle count must not be negative, not -1"))
}

func TestRunFirstCycleImmediate(t *testing.T) {
	rec := &cycleRecorder{}
	l, err := NewLoopWithClock(logging.NewTestLogger(t), Config{Frequency: 1}, rec.cycle, clock.NewMock())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, l.Run(context.Background(), 1), test.ShouldBeNil)
	test.That(t, rec.seen(), test.ShouldResemble, []int{0})
}

func TestRunErrors(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	notDetected := locator.NewLocatorError(nil, "target april tag not detected", locator.ErrTargetNotDetected)
	rec := &cycleRecorder{errAt: map[int]error{
		0: errors.Wrap(notDetected, "locating"),
		1: errors.New("motor unplugged"),
	}}
	l, err := NewLoopWithClock(logger, Config{Frequency: 100}, rec.cycle, clock.NewMock())
	test.That(t, err, test.ShouldBeNil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Run(context.Background(), 5)
	}()
	mock := l.clock.(*clock.Mock)
	var runErr error
	gotestutils.WaitForAssertion(t, func(tb testing.TB) {
		mock.Add(l.Period())
		select {
		case runErr = <-errCh:
		default:
		}
		test.That(tb, runErr, test.ShouldNotBeNil)
	})
	test.That(t, runErr.Error(), test.ShouldEqual, "cycle 1: motor unplugged")
	test.That(t, rec.seen(), test.ShouldResemble, []int{0, 1})
	test.That(t, l.Completed(), test.ShouldEqual, 1)

	skipped := logs.FilterMessage("no location this cycle").All()
	test.That(t, skipped, test.ShouldHaveLength, 1)
	test.That(t, skipped[0].ContextMap()["reason"], test.ShouldEqual, "target april tag not detected")
}

func TestRunCanceled(t *testing.T) {
	rec := &cycleRecorder{}
	l, err := NewLoopWithClock(logging.NewTestLogger(t), Config{Frequency: 10}, rec.cycle, clock.NewMock())
	test.That(t, err, test.ShouldBeNil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = l.Run(ctx, 0)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
	test.That(t, rec.seen(), test.ShouldBeEmpty)
}

func TestStartStop(t *testing.T) {
	mock := clock.NewMock()
	rec := &cycleRecorder{}
	l, err := NewLoopWithClock(logging.NewTestLogger(t), Config{Frequency: 20}, rec.cycle, mock)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, l.Stop(), test.ShouldBeNil)
	test.That(t, l.Start(), test.ShouldBeNil)
	test.That(t, l.Start(), test.ShouldBeError, errors.New("loop is already running"))

	gotestutils.WaitForAssertion(t, func(tb testing.TB) {
		mock.Add(l.Period())
		test.That(tb, l.Completed(), test.ShouldBeGreaterThanOrEqualTo, 2)
	})
	test.That(t, l.Stop(), test.ShouldBeNil)
	test.That(t, l.Stop(), test.ShouldBeNil)

	failing := &cycleRecorder{errAt: map[int]error{0: errors.New("stalled")}}
	l, err = NewLoopWithClock(logging.NewTestLogger(t), Config{Frequency: 20}, failing.cycle, mock)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, l.Start(), test.ShouldBeNil)
	gotestutils.WaitForAssertion(t, func(tb testing.TB) {
		test.That(tb, failing.seen(), test.ShouldHaveLength, 1)
	})
	test.That(t, l.Stop(), test.ShouldBeError, errors.New("cycle 0: stalled"))
}
