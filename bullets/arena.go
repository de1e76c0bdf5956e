package bullets

import (
	"iter"
	"math/bits"
)

// Arena tracks which slots of a fixed capacity pool are occupied and the
// generation of each slot. Acquire always hands out the lowest free index.
type Arena struct {
	generation []int32
	occupied   []uint64
	// lowest word that may still contain a free slot
	hint      int
	available int
}

func NewArena(capacity int) *Arena {
	if capacity < 0 {
		capacity = 0
	}
	return &Arena{
		generation: make([]int32, capacity),
		occupied:   make([]uint64, (capacity+63)/64),
		available:  capacity,
	}
}

func (a *Arena) Cap() int {
	if a == nil {
		return 0
	}
	return len(a.generation)
}

func (a *Arena) Available() int {
	if a == nil {
		return 0
	}
	return a.available
}

func (a *Arena) Active() int {
	if a == nil {
		return 0
	}
	return len(a.generation) - a.available
}

// Acquire marks the first free slot active and bumps its generation.
func (a *Arena) Acquire() (index int32, generation int32, ok bool) {
	if a == nil || a.available == 0 {
		return -1, -1, false
	}
	n := len(a.generation)
	for w := a.hint; w < len(a.occupied); w++ {
		free := ^a.occupied[w]
		if free == 0 {
			continue
		}
		i := w*64 + bits.TrailingZeros64(free)
		if i >= n {
			break
		}
		a.occupied[w] |= 1 << uint(i%64)
		a.generation[i]++
		a.available--
		a.hint = w
		return int32(i), a.generation[i], true
	}
	return -1, -1, false
}

// Release frees the slot if the generation matches. The generation is left
// unchanged until the slot is acquired again.
func (a *Arena) Release(index, generation int32) bool {
	if !a.IsValid(index, generation) {
		return false
	}
	w := int(index) / 64
	a.occupied[w] &^= 1 << uint(index%64)
	a.available++
	if w < a.hint {
		a.hint = w
	}
	return true
}

func (a *Arena) IsValid(index, generation int32) bool {
	return a.IsActive(index) && a.generation[index] == generation
}

func (a *Arena) IsActive(index int32) bool {
	if a == nil || index < 0 || int(index) >= len(a.generation) {
		return false
	}
	return a.occupied[index/64]&(1<<uint(index%64)) != 0
}

// Generation returns the current generation of the slot, or -1 when out of range.
func (a *Arena) Generation(index int32) int32 {
	if a == nil || index < 0 || int(index) >= len(a.generation) {
		return -1
	}
	return a.generation[index]
}

// All yields active slot indices in ascending order. Releasing the index
// currently being visited is allowed.
func (a *Arena) All() iter.Seq[int32] {
	return func(yield func(int32) bool) {
		if a == nil {
			return
		}
		for w := range a.occupied {
			word := a.occupied[w]
			for word != 0 {
				i := w*64 + bits.TrailingZeros64(word)
				word &= word - 1
				if !yield(int32(i)) {
					return
				}
			}
		}
	}
}
