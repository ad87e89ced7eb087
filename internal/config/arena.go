package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Sentinel errors for arena operations.
var (
	// ErrOutOfMemory is returned when an Allocator cannot satisfy a request.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrArenaReleased is returned when an arena is used or released after
	// it has already been released.
	ErrArenaReleased = errors.New("arena already released")
)

// Allocator hands out the memory an Arena is charged for. Implementations
// must be safe for concurrent use: arenas owned by different goroutines may
// share one Allocator.
type Allocator interface {
	// Alloc reserves n bytes, failing with an error wrapping ErrOutOfMemory.
	Alloc(n int) error
	// Free returns n previously reserved bytes.
	Free(n int)
}

type heapAllocator struct{}

func (heapAllocator) Alloc(int) error { return nil }
func (heapAllocator) Free(int)        {}

// Heap is the default Allocator. It never fails.
var Heap Allocator = heapAllocator{}

// Budget is an Allocator that fails once more than Limit bytes would be
// outstanding. It is used to cap configuration memory and to exercise
// allocation failure paths.
type Budget struct {
	mu    sync.Mutex
	limit int
	used  int
}

// NewBudget returns a Budget allowing limit outstanding bytes.
func NewBudget(limit int) *Budget {
	return &Budget{limit: limit}
}

// Alloc implements Allocator.
func (b *Budget) Alloc(n int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.used+n > b.limit {
		return fmt.Errorf("budget: %d bytes requested, %d of %d in use: %w", n, b.used, b.limit, ErrOutOfMemory)
	}
	b.used += n
	return nil
}

// Free implements Allocator.
func (b *Budget) Free(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.used -= n
}

// InUse returns the number of outstanding bytes.
func (b *Budget) InUse() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// arenaOverhead is charged when an arena is created, so that creating one
// can fail the same way a clone in a real allocator would.
const arenaOverhead = 64

// Arena is a scoped allocation region bound to one Config. Every string the
// Config owns is charged to its arena, and all of it is returned to the
// Allocator in one Release call. An Arena has exactly one owner and is not
// safe for concurrent use.
type Arena struct {
	alloc    Allocator
	size     int
	released bool
}

// NewArena creates an arena drawing from alloc. A nil alloc means Heap.
func NewArena(alloc Allocator) (*Arena, error) {
	if alloc == nil {
		alloc = Heap
	}
	if err := alloc.Alloc(arenaOverhead); err != nil {
		return nil, fmt.Errorf("create arena: %w", err)
	}
	return &Arena{alloc: alloc, size: arenaOverhead}, nil
}

// newArena creates an arena that is charged nothing up front.
func newArena(alloc Allocator) *Arena {
	return &Arena{alloc: alloc}
}

// Strdup copies s into memory owned by the arena.
func (a *Arena) Strdup(s string) (string, error) {
	if a.released {
		return "", ErrArenaReleased
	}
	if err := a.alloc.Alloc(len(s)); err != nil {
		return "", err
	}
	a.size += len(s)
	return strings.Clone(s), nil
}

// Size returns the number of bytes currently charged to the arena.
func (a *Arena) Size() int { return a.size }

// Released reports whether Release has been called.
func (a *Arena) Released() bool { return a.released }

// Release returns everything charged to the arena. It must be called exactly
// once; later calls fail with ErrArenaReleased.
func (a *Arena) Release() error {
	if a.released {
		return ErrArenaReleased
	}
	a.released = true
	a.alloc.Free(a.size)
	a.size = 0
	return nil
}
