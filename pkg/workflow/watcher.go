package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/marshallshelly/stockroom/pkg/store"
)

// ErrWatcherRunning is returned by Start on a watcher that is already running.
var ErrWatcherRunning = errors.New("watcher already running")

// Watcher runs a poll function immediately and then on a fixed interval until
// stopped.
type Watcher struct {
	interval time.Duration
	poll     func(ctx context.Context)
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	doneCh chan struct{}
}

// NewWatcher creates a stopped watcher. A non-positive interval uses 30s.
func NewWatcher(interval time.Duration, poll func(ctx context.Context), logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{interval: interval, poll: poll, logger: logger}
}

// Start launches the polling goroutine. It stops when Stop is called or ctx
// ends.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.doneCh != nil {
		return ErrWatcherRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneCh = make(chan struct{})

	go w.run(ctx, w.doneCh)
	w.logger.Debug("watcher started", "interval", w.interval)
	return nil
}

func (w *Watcher) run(ctx context.Context, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// Stop cancels the polling goroutine and waits for it to exit. Stopping a
// stopped watcher is a no-op.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, doneCh := w.cancel, w.doneCh
	w.cancel, w.doneCh = nil, nil
	w.mu.Unlock()

	if doneCh == nil {
		return
	}
	cancel()
	<-doneCh
	w.logger.Debug("watcher stopped")
}

// Running reports whether the watcher is polling.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doneCh != nil
}

// WatchNotifications returns a watcher that reloads the notifications on
// every tick and hands the result to onUpdate. Superseded polls are not
// reported.
func (d *Dashboard) WatchNotifications(interval time.Duration, onUpdate func(Notifications, error)) *Watcher {
	return NewWatcher(interval, func(ctx context.Context) {
		n, err := d.Notifications(ctx)
		if errors.Is(err, store.ErrSuperseded) || (err != nil && ctx.Err() != nil) {
			return
		}
		onUpdate(n, err)
	}, d.logger)
}
