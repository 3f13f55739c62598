// Package poller periodically re-reads the minted supply of the contract.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/mrz1836/punkmint/internal/config"
	"github.com/mrz1836/punkmint/internal/metrics"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// Snapshot is one successful supply read.
type Snapshot struct {
	Minted string    `json:"minted"`
	At     time.Time `json:"at"`
}

// Source reads the current supply.
type Source interface {
	ReadSupply(ctx context.Context) (string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (string, error)

// ReadSupply implements Source.
func (f SourceFunc) ReadSupply(ctx context.Context) (string, error) { return f(ctx) }

// Poller reads a Source immediately and then on every interval until its
// context is cancelled or Stop is called. A failed read is logged and
// dropped; the next tick runs on schedule. Only the latest snapshot is
// kept for the consumer. A Poller runs once and cannot be restarted.
type Poller struct {
	source   Source
	interval time.Duration
	logger   config.LogWriter
	metrics  *metrics.Metrics

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a poller reading source every interval.
func New(source Source, interval time.Duration, logger config.LogWriter, m *metrics.Metrics) *Poller {
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}
	if logger == nil {
		logger = config.NullLogger()
	}
	if m == nil {
		m = metrics.Global
	}
	return &Poller{
		source:   source,
		interval: interval,
		logger:   logger,
		metrics:  m,
		done:     make(chan struct{}),
	}
}

// Start launches the poll loop. The returned channel is closed when the
// loop ends. Calling Start a second time fails with errors.ErrPollerStarted.
func (p *Poller) Start(ctx context.Context) (<-chan Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil, minterr.ErrPollerStarted
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	out := make(chan Snapshot, 1)
	go p.loop(ctx, out)
	return out, nil
}

// Stop ends the poll loop and waits for it to exit. Safe to call more
// than once, and before Start.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, started := p.cancel, p.started
	p.mu.Unlock()

	if !started {
		return
	}
	cancel()
	<-p.done
}

func (p *Poller) loop(ctx context.Context, out chan Snapshot) {
	defer close(p.done)
	defer close(out)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.tick(ctx, out)

		select {
		case <-ctx.Done():
			p.logger.Debug("supply poller stopped")
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) tick(ctx context.Context, out chan Snapshot) {
	minted, err := p.source.ReadSupply(ctx)
	p.metrics.RecordPollTick(err)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("%v", minterr.Classify(minterr.ErrTransientRead, err))
		}
		return
	}

	publish(out, Snapshot{Minted: minted, At: time.Now()})
}

// publish replaces any unread snapshot with s. Only the loop goroutine
// sends, so after draining there is always room.
func publish(out chan Snapshot, s Snapshot) {
	select {
	case <-out:
	default:
	}
	out <- s
}
