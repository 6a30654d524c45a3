package pool

import "bytes"

// NewBufferPool pools byte buffers, dropping any whose capacity exceeds
// maxRetained bytes.
func NewBufferPool(maxRetained int) *Pool[*bytes.Buffer] {
	return New(
		func() *bytes.Buffer { return new(bytes.Buffer) },
		func(b *bytes.Buffer) bool {
			if b.Cap() > maxRetained {
				return false
			}
			b.Reset()
			return true
		},
	)
}

// NewSlicePool pools slices, dropping any whose capacity exceeds
// maxRetained elements. Slices come back empty with their elements zeroed.
func NewSlicePool[T any](initialCap, maxRetained int) *Pool[*[]T] {
	return New(
		func() *[]T {
			s := make([]T, 0, initialCap)
			return &s
		},
		func(s *[]T) bool {
			if cap(*s) > maxRetained {
				return false
			}
			clear((*s)[:cap(*s)])
			*s = (*s)[:0]
			return true
		},
	)
}

// NewSetPool pools sets, dropping any that held more than maxRetained keys.
func NewSetPool[K comparable](maxRetained int) *Pool[map[K]struct{}] {
	return New(
		func() map[K]struct{} { return make(map[K]struct{}) },
		func(m map[K]struct{}) bool {
			if len(m) > maxRetained {
				return false
			}
			clear(m)
			return true
		},
	)
}

// NewMapPool pools maps, dropping any that held more than maxRetained keys.
func NewMapPool[K comparable, V any](maxRetained int) *Pool[map[K]V] {
	return New(
		func() map[K]V { return make(map[K]V) },
		func(m map[K]V) bool {
			if len(m) > maxRetained {
				return false
			}
			clear(m)
			return true
		},
	)
}
