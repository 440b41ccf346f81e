package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tasklist/pkg/storage"
)

const writeTimeout = 5 * time.Second

// persister writes collection snapshots on a background goroutine.
// Only the latest snapshot matters, so snapshots queued while a write is in
// flight are coalesced into one.
type persister struct {
	slots storage.Slots
	key   string
	log   *slog.Logger

	mu       sync.Mutex
	data     []byte
	dirty    bool
	seq      uint64 // latest scheduled snapshot
	written  uint64 // latest snapshot whose write was attempted
	lastErr  error
	progress chan struct{} // closed and replaced whenever written advances
	closed   bool

	wake chan struct{}
	done chan struct{}
}

func newPersister(slots storage.Slots, key string, log *slog.Logger) *persister {
	p := &persister{
		slots:    slots,
		key:      key,
		log:      log,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// schedule queues data for writing and returns immediately.
func (p *persister) schedule(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.log.Warn("dropping write after close", "key", p.key)
		return
	}
	p.data = data
	p.dirty = true
	p.seq++
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.done)
	for range p.wake {
		p.drain()
	}
}

func (p *persister) drain() {
	for {
		p.mu.Lock()
		if !p.dirty {
			p.mu.Unlock()
			return
		}
		data, seq := p.data, p.seq
		p.dirty = false
		p.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := p.slots.Set(ctx, p.key, string(data))
		cancel()
		if err != nil {
			p.log.Error("failed to persist tasks", "key", p.key, "error", err)
		} else {
			p.log.Debug("persisted tasks", "key", p.key, "bytes", len(data))
		}

		p.mu.Lock()
		p.written = seq
		p.lastErr = err
		close(p.progress)
		p.progress = make(chan struct{})
		p.mu.Unlock()
	}
}

// flush waits until every snapshot scheduled so far has been written and
// returns the error of the latest write.
func (p *persister) flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.seq
	for p.written < target {
		ch := p.progress
		p.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		p.mu.Lock()
	}
	err := p.lastErr
	p.mu.Unlock()
	return err
}

// close flushes and stops the writer goroutine.
func (p *persister) close(ctx context.Context) error {
	err := p.flush(ctx)

	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.wake)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}
