package encoder

import (
	"context"
	"fmt"
	"time"

	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/ffencoder/pool"
)

// FrameHandle identifies a frame owned by a framePool.
type FrameHandle uint64

type frameState int

const (
	frameStateFree = frameState(iota)
	frameStateCheckedOut
	frameStateInFlight
)

type frameSlot struct {
	frame Frame
	state frameState
}

// framePool is the sole owner of every frame of an Instance. Frames are
// checked out by handle, submitted into the in-flight queue and return to
// the free stack once their packet was retrieved.
type framePool struct {
	slots      map[FrameHandle]*frameSlot
	nextHandle FrameHandle
	free       *pool.Pool[FrameHandle]
	inFlight   pool.Queue[FrameHandle]
	allocFunc  func(ctx context.Context) (Frame, error)
	allocCtx   context.Context
}

func newFramePool(
	ctx context.Context,
	allocFunc func(ctx context.Context) (Frame, error),
	retention time.Duration,
	now func() time.Time,
) *framePool {
	p := &framePool{
		slots:     map[FrameHandle]*frameSlot{},
		allocFunc: allocFunc,
		allocCtx:  ctx,
	}
	p.free = pool.NewPool(p.alloc, p.dispose, retention)
	p.free.Now = now
	return p
}

func (p *framePool) alloc() (FrameHandle, error) {
	f, err := p.allocFunc(p.allocCtx)
	if err != nil {
		return 0, err
	}
	p.nextHandle++
	h := p.nextHandle
	p.slots[h] = &frameSlot{frame: f}
	logger.Tracef(p.allocCtx, "allocated frame #%d", h)
	return h, nil
}

func (p *framePool) dispose(h FrameHandle) {
	slot, ok := p.slots[h]
	if !ok {
		return
	}
	delete(p.slots, h)
	slot.frame.Free()
}

// Acquire checks out a frame, reusing the most recently released one.
func (p *framePool) Acquire(ctx context.Context) (FrameHandle, Frame, error) {
	p.allocCtx = ctx
	h, err := p.free.Get()
	if err != nil {
		return 0, nil, ErrAllocation{Err: err}
	}
	slot := p.slots[h]
	slot.state = frameStateCheckedOut
	return h, slot.frame, nil
}

// Release returns a checked-out frame that never reached the backend.
func (p *framePool) Release(ctx context.Context, h FrameHandle) {
	slot, ok := p.slots[h]
	if !ok {
		logger.Errorf(ctx, "releasing an unknown frame #%d", h)
		return
	}
	if slot.state != frameStateCheckedOut {
		logger.Errorf(ctx, "releasing frame #%d which is not checked out (state: %d)", h, slot.state)
		return
	}
	slot.state = frameStateFree
	p.free.Put(h)
}

// Submit moves a checked-out frame into the in-flight queue.
func (p *framePool) Submit(h FrameHandle) error {
	slot, ok := p.slots[h]
	if !ok || slot.state != frameStateCheckedOut {
		return fmt.Errorf("frame #%d is not checked out", h)
	}
	slot.state = frameStateInFlight
	p.inFlight.Push(h)
	return nil
}

// Retrieved moves the oldest in-flight frame back to the free stack.
func (p *framePool) Retrieved(ctx context.Context) bool {
	h, ok := p.inFlight.Pop()
	if !ok {
		return false
	}
	slot, ok := p.slots[h]
	if !ok {
		logger.Errorf(ctx, "in-flight frame #%d is unknown", h)
		return true
	}
	slot.state = frameStateFree
	p.free.Put(h)
	return true
}

func (p *framePool) InFlight() int {
	return p.inFlight.Len()
}

func (p *framePool) Free() int {
	return p.free.Len()
}

// Close frees every frame, including those still in flight.
func (p *framePool) Close() {
	p.free.Clear()
	p.inFlight.Drain(func(FrameHandle) {})
	for h := range p.slots {
		p.dispose(h)
	}
}
