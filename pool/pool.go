// Package pool provides a LIFO object pool with a time-boxed retention
// policy and a FIFO queue for objects handed out to a consumer.
package pool

import (
	"time"
)

// Pool recycles objects in LIFO order. Objects released while the pool
// is non-empty are kept only if the pool was last refilled from empty
// less than Retention ago; otherwise everything retained is freed, so a
// working set that stopped shrinking is not kept around forever.
//
// Pool is not safe for concurrent use.
type Pool[T any] struct {
	AllocFunc func() (T, error)
	FreeFunc  func(T)
	Retention time.Duration
	Now       func() time.Time

	free     []T
	lastUsed time.Time
}

func NewPool[T any](
	allocFunc func() (T, error),
	freeFunc func(T),
	retention time.Duration,
) *Pool[T] {
	return &Pool[T]{
		AllocFunc: allocFunc,
		FreeFunc:  freeFunc,
		Retention: retention,
		Now:       time.Now,
	}
}

// Get pops the most recently released object or allocates a new one.
func (p *Pool[T]) Get() (T, error) {
	if n := len(p.free); n > 0 {
		item := p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		return item, nil
	}
	return p.AllocFunc()
}

// Put releases the object back into the pool.
func (p *Pool[T]) Put(item T) {
	now := p.Now()
	if len(p.free) == 0 {
		p.free = append(p.free, item)
		p.lastUsed = now
		return
	}
	if now.Sub(p.lastUsed) < p.Retention {
		p.free = append(p.free, item)
		return
	}
	p.free = append(p.free, item)
	p.Clear()
}

// Len returns the amount of retained objects.
func (p *Pool[T]) Len() int {
	return len(p.free)
}

// Clear frees every retained object.
func (p *Pool[T]) Clear() {
	for i, item := range p.free {
		if p.FreeFunc != nil {
			p.FreeFunc(item)
		}
		var zero T
		p.free[i] = zero
	}
	p.free = p.free[:0]
}
