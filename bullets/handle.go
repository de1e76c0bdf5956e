package bullets

import "strconv"

// Handle identifies one bullet. Index is the bullet's shape index within its
// pool set, Generation is the slot generation at spawn time and PoolSet is the
// index of the owning pool set.
type Handle struct {
	Index      int32
	Generation int32
	PoolSet    int32
}

// InvalidHandle is returned wherever no bullet could be produced.
var InvalidHandle = Handle{Index: -1, Generation: -1, PoolSet: -1}

func (h Handle) Valid() bool {
	return h.Index >= 0 && h.Generation >= 0 && h.PoolSet >= 0
}

// Array returns the wire form [index, generation, pool_set].
func (h Handle) Array() [3]int32 {
	return [3]int32{h.Index, h.Generation, h.PoolSet}
}

func HandleFromArray(a [3]int32) Handle {
	return Handle{Index: a[0], Generation: a[1], PoolSet: a[2]}
}

func (h Handle) String() string {
	return "[" + strconv.Itoa(int(h.Index)) + "," + strconv.Itoa(int(h.Generation)) + "," + strconv.Itoa(int(h.PoolSet)) + "]"
}
