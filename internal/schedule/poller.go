package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Polling intervals for the message views. Simple timer polling, not
// push.
const (
	ConversationPollInterval     = 5 * time.Second
	ConversationListPollInterval = 15 * time.Second
)

// PollerConfig holds configuration for a Poller.
type PollerConfig struct {
	// Interval between ticks (required, must be positive).
	Interval time.Duration

	// Task runs on every tick. Errors are logged, never fatal; the
	// next tick still fires.
	Task func(ctx context.Context) error

	// Immediate fires the task once before the first interval elapses.
	Immediate bool

	// Logger for tick diagnostics.
	Logger zerolog.Logger
}

// Poller re-runs a task on a fixed interval until stopped. The timer is
// owned by the poller and cleared by Stop, so an unmounted view cannot
// leak ticks.
type Poller struct {
	config PollerConfig
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	started bool
}

// NewPoller creates a poller. Start must be called to begin ticking.
func NewPoller(cfg PollerConfig) *Poller {
	return &Poller{config: cfg, done: make(chan struct{})}
}

// Start begins polling. Subsequent calls are no-ops.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.config.Interval <= 0 || p.config.Task == nil {
		p.mu.Unlock()
		return
	}
	p.started = true
	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	go p.run(ctx)
}

// Stop cancels the polling loop and waits for the in-flight tick to
// finish. Safe to call repeatedly.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	started := p.started
	p.mu.Unlock()

	if !started {
		return
	}
	if cancel != nil {
		cancel()
	}
	<-p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	if p.config.Immediate {
		p.tick(ctx)
	}

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.config.Task(ctx); err != nil {
		p.config.Logger.Debug().Err(err).Msg("poll tick failed")
	}
}
