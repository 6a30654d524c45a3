// Package pool provides small, mutex-guarded object pools for the transient
// collections created while building and walking syntax trees.
//
// Unlike sync.Pool, a Pool keeps a fixed number of idle objects, clears
// every object it takes back, and refuses objects that grew past a size
// limit so one large use cannot pin memory for every later small use.
package pool

import (
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the number of idle objects a pool retains.
const DefaultCapacity = 16

// Pool hands out reusable objects of type T.
type Pool[T any] struct {
	mu       sync.Mutex
	free     []T
	capacity int
	factory  func() T
	reset    func(T) bool
}

// New creates a pool with DefaultCapacity. factory builds new objects;
// reset clears an object being returned and reports whether it may be
// kept (false drops it, e.g. because it grew too large).
func New[T any](factory func() T, reset func(T) bool) *Pool[T] {
	return NewWithCapacity(DefaultCapacity, factory, reset)
}

// NewWithCapacity creates a pool retaining at most capacity idle objects.
func NewWithCapacity[T any](capacity int, factory func() T, reset func(T) bool) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool[T]{
		free:     make([]T, 0, capacity),
		capacity: capacity,
		factory:  factory,
		reset:    reset,
	}
}

// Get checks out an object, reusing an idle one when available.
func (p *Pool[T]) Get() T {
	p.mu.Lock()
	if n := len(p.free); n > 0 {
		v := p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		p.mu.Unlock()
		return v
	}
	p.mu.Unlock()
	return p.factory()
}

// Put checks an object back in. The object is cleared before it becomes
// available again; oversized objects and objects beyond the pool's
// capacity are dropped.
func (p *Pool[T]) Put(v T) {
	if p.reset != nil && !p.reset(v) {
		return
	}
	p.mu.Lock()
	if len(p.free) < p.capacity {
		p.free = append(p.free, v)
	}
	p.mu.Unlock()
}

// Available returns the number of idle objects.
func (p *Pool[T]) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Capacity returns the maximum number of idle objects retained.
func (p *Pool[T]) Capacity() int { return p.capacity }

// Acquire checks out an object wrapped in a Lease.
func (p *Pool[T]) Acquire() *Lease[T] {
	return &Lease[T]{pool: p, value: p.Get()}
}

// Lease ties a checked-out object to exactly one return. Typical use:
//
//	lease := p.Acquire()
//	defer lease.Release()
//	buf := lease.Value()
type Lease[T any] struct {
	pool     *Pool[T]
	value    T
	released atomic.Bool
}

// Value returns the leased object. It must not be used after Release.
func (l *Lease[T]) Value() T { return l.value }

// Release returns the object to its pool. Calls after the first are no-ops.
func (l *Lease[T]) Release() {
	if !l.released.CompareAndSwap(false, true) {
		return
	}
	v := l.value
	var zero T
	l.value = zero
	l.pool.Put(v)
}
