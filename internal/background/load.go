package background

import (
	"context"
	"image"
	"sync"
)

// Load is a pending background resolution. It completes exactly once.
type Load struct {
	gen    uint64
	done   chan struct{}
	once   sync.Once
	err    error
	cancel context.CancelFunc
}

func newLoad(gen uint64, cancel context.CancelFunc) *Load {
	if cancel == nil {
		cancel = func() {}
	}
	return &Load{gen: gen, done: make(chan struct{}), cancel: cancel}
}

// Completed returns a Load that has already finished with err.
func Completed(gen uint64, err error) *Load {
	l := newLoad(gen, nil)
	l.finish(err)
	return l
}

// Generation returns the load's generation token.
func (l *Load) Generation() uint64 { return l.gen }

// Done is closed when the load finishes.
func (l *Load) Done() <-chan struct{} { return l.done }

// Err returns the load error once Done is closed.
func (l *Load) Err() error {
	select {
	case <-l.done:
		return l.err
	default:
		return nil
	}
}

// Wait blocks until the load finishes or ctx is done.
func (l *Load) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return l.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel aborts the fetch if it is still running.
func (l *Load) Cancel() { l.cancel() }

func (l *Load) finish(err error) {
	l.once.Do(func() {
		l.err = err
		l.cancel()
		close(l.done)
	})
}

// Settle runs apply under the owner's lock. apply reports whether the load
// was still current; the owner redraws only then.
type Settle func(apply func() bool)

// Load starts resolving src in the background. When the loader returns,
// settle is called with a function that stores the result into m. The
// result is applied against the state current at that moment, and dropped
// if another load has started since.
func (m *Manager) Load(parent context.Context, loader Loader, src string, width, height int, settle Settle) *Load {
	gen := m.Begin()
	ctx, cancel := context.WithCancel(parent)
	l := newLoad(gen, cancel)

	m.log.WithField("generation", gen).Debug("Background load requested")

	go func() {
		img, err := loader.Load(ctx, src)
		settle(func() bool {
			if err != nil {
				return m.Fail(gen, err)
			}
			return m.Resolve(gen, img, width, height)
		})
		l.finish(err)
	}()

	return l
}

// Set resolves an already decoded image synchronously.
func (m *Manager) Set(img image.Image, width, height int) *Load {
	gen := m.Begin()
	m.Resolve(gen, img, width, height)
	return Completed(gen, nil)
}
