package bullets

import "sort"

// PoolSet groups the pools that share one collision layer and mask. Pool i
// owns shape indices [offsets[i], offsets[i+1]).
type PoolSet struct {
	index   int32
	key     uint64
	domain  DomainID
	pools   []*Pool
	offsets []int32
}

func (s *PoolSet) Index() int32     { return s.index }
func (s *PoolSet) Key() uint64      { return s.key }
func (s *PoolSet) Domain() DomainID { return s.domain }
func (s *PoolSet) Pools() []*Pool   { return s.pools }

// Size is the number of shapes across all pools of the set.
func (s *PoolSet) Size() int32 {
	if len(s.offsets) == 0 {
		return 0
	}
	return s.offsets[len(s.offsets)-1]
}

// poolIndex finds the pool owning a shape index with a binary search over
// the offset table.
func (s *PoolSet) poolIndex(shape int32) int {
	if shape < 0 || shape >= s.Size() {
		return -1
	}
	// first pool whose end is past shape
	i := sort.Search(len(s.pools), func(i int) bool { return s.offsets[i+1] > shape })
	if i >= len(s.pools) {
		return -1
	}
	return i
}

func (s *PoolSet) pool(shape int32) *Pool {
	i := s.poolIndex(shape)
	if i < 0 {
		return nil
	}
	return s.pools[i]
}

func (s *PoolSet) process(dt float64) int {
	delta := 0
	for _, p := range s.pools {
		delta += p.Process(dt)
	}
	return delta
}
