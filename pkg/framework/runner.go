package framework

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Wait when a second stop signal arrives.
var ErrForcedExit = errors.New("forced exit")

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

func nameOf(runner Runnable, index int) string {
	if named, ok := runner.(Named); ok {
		return named.Name()
	}
	return strconv.Itoa(index)
}

// Runner runs multiple Runnables and collect errors.
type Runner struct {
	Context context.Context
	Runners []Runnable

	cancel func()
	errCh  chan error
	exitCh chan struct{}
}

// NewRunner creates a runner with a default background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner with a specified context.
func NewRunnerWith(ctx context.Context) *Runner {
	r := &Runner{errCh: make(chan error, 1), exitCh: make(chan struct{})}
	r.Context, r.cancel = context.WithCancel(ctx)
	return r
}

// HandleSignals cancels the context on Ctrl-C or SIGTERM. A second
// signal makes Wait return ErrForcedExit.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		r.cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.exitCh)
	}()
	return r
}

// Stop cancels the context of all Runnables.
func (r *Runner) Stop() {
	r.cancel()
}

// Go spawns Runnables with the runner context.
func (r *Runner) Go(runners ...Runnable) *Runner {
	for _, runner := range runners {
		name := nameOf(runner, len(r.Runners))
		r.Runners = append(r.Runners, runner)
		go func(runner Runnable) {
			glog.V(4).Infof("Runner[%s] started", name)
			err := runner.Run(r.Context)
			glog.V(4).Infof("Runner[%s] stopped: %v", name, err)
			r.errCh <- err
		}(runner)
	}
	return r
}

// Wait waits until all Runnables stop and aggregates their errors.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for range r.Runners {
		select {
		case <-r.exitCh:
			return ErrForcedExit
		case err := <-r.errCh:
			if err != nil && err != context.Canceled {
				errs.Add(err)
			}
		}
	}
	return errs.Aggregate()
}

// StopOnExit wraps a Runnable so the runner stops once it returns.
func (r *Runner) StopOnExit(runnable Runnable) Runnable {
	return NamedRun(nameOf(runnable, len(r.Runners)), RunFunc(func(ctx context.Context) error {
		defer r.cancel()
		return runnable.Run(ctx)
	}))
}

// RunWithContextCancel runs a func which doesn't accept a context.
// onCancel is called only when the context is canceled, and is expected
// to make fn return.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		<-errCh
		return context.Canceled
	case err := <-errCh:
		return err
	}
}

// RunWithContextCloser runs fn and closes closer either on cancel or
// after fn returns.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var closed bool
	err := RunWithContextCancel(ctx, func() {
		closer.Close()
		closed = true
	}, fn)
	if !closed {
		closer.Close()
	}
	return err
}
