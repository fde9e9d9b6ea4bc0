package ocrprep

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one renderer is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each
	// once export starts a browser).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned when acquiring from a closed pool.
var ErrPoolClosed = errors.New("renderer pool is closed")

// RendererPool manages a pool of Renderer instances for parallel batch
// rendering and export. Renderers are created lazily on first acquire;
// each renderer that exports owns its own browser instance.
type RendererPool struct {
	size      int
	opts      []RendererOption
	renderers []*Renderer
	sem       chan *Renderer
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewRendererPool creates a pool with capacity for n Renderer instances,
// each built with opts.
func NewRendererPool(n int, opts ...RendererOption) *RendererPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}

	return &RendererPool{
		size:      n,
		opts:      opts,
		renderers: make([]*Renderer, 0, n),
		sem:       make(chan *Renderer, n),
	}
}

// Acquire gets a renderer from the pool, creating one if capacity allows.
// Blocks if all renderers are in use. Returns nil after Close.
func (p *RendererPool) Acquire() *Renderer {
	// Try to get an existing renderer (non-blocking)
	select {
	case r := <-p.sem:
		return r
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		r := NewRenderer(p.opts...)

		p.mu.Lock()
		p.renderers = append(p.renderers, r)
		p.mu.Unlock()

		return r
	}
	p.mu.Unlock()

	// At capacity: wait for a release.
	return <-p.sem
}

// Release returns a renderer to the pool. Releasing into a closed pool is
// a no-op; Close already shut the renderer down.
func (p *RendererPool) Release(r *Renderer) {
	if r == nil {
		return
	}

	// The send stays under the mutex so it cannot race a concurrent Close
	// into a send on a closed channel. It never blocks: the channel buffer
	// has room for every renderer the pool ever created.
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.sem <- r
	}
}

// Size returns the pool capacity.
func (p *RendererPool) Size() int {
	return p.size
}

// Close shuts down all created renderers and their browsers. Safe to call
// more than once.
func (p *RendererPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	// Closing the channel unblocks any Acquire waiting at capacity; it
	// receives nil, the documented post-Close result.
	close(p.sem)
	renderers := p.renderers
	p.renderers = nil
	p.mu.Unlock()

	var firstErr error
	for _, r := range renderers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DefaultPoolSize picks a pool size from the available parallelism,
// leaving headroom for browser child processes. GOMAXPROCS respects
// container CPU quotas where NumCPU reports the host.
func DefaultPoolSize() int {
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
