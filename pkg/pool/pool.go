// Package pool provides a fixed-size, round-robin cache of scratch values.
//
// A pool hands out pointers to pre-allocated slots so hot math paths can
// chain matrix operations without allocating. Values are borrowed, not
// owned: the same slot is handed out again after Len calls to Next, so a
// caller must not keep a pooled pointer past the computation that asked
// for it. Pools are not safe for concurrent use.
package pool

import "fmt"

// Pool is a round-robin set of reusable T values.
type Pool[T any] struct {
	items []T
	index int
}

// New creates a pool holding n zero-valued items.
// Panics if n is not positive.
func New[T any](n int) *Pool[T] {
	if n <= 0 {
		panic(fmt.Sprintf("pool: capacity must be positive, got %d", n))
	}
	return &Pool[T]{items: make([]T, n)}
}

// Next returns the next slot in the pool, wrapping around after the last one.
// The slot keeps whatever value its previous borrower left in it.
func (p *Pool[T]) Next() *T {
	p.index %= len(p.items)
	item := &p.items[p.index]
	p.index++
	return item
}

// Len returns the pool capacity.
func (p *Pool[T]) Len() int {
	return len(p.items)
}

// Reset rewinds the cursor to the first slot.
func (p *Pool[T]) Reset() {
	p.index = 0
}
