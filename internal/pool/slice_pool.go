package pool

import "sync"

// Typed slice pools used when producing snapshot rows: the int64 pool backs
// the [timestamp, Pb0, Vb0, Pa0, Va0, ...] row buffer, the float64 pool
// backs scratch space for mid-price series built from a run of snapshots.
// The string pool is a general-purpose companion with the same contract.
var (
	int64SlicePool = sync.Pool{
		New: func() any { return &[]int64{} },
	}
	float64SlicePool = sync.Pool{
		New: func() any { return &[]float64{} },
	}
	stringSlicePool = sync.Pool{
		New: func() any { return &[]string{} },
	}
)

// GetInt64Slice retrieves an int64 slice of exactly size length from the
// pool, along with a cleanup function the caller must invoke (typically via
// defer) to return it.
func GetInt64Slice(size int) ([]int64, func()) {
	ptr, _ := int64SlicePool.Get().(*[]int64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int64, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { int64SlicePool.Put(ptr) }
}

// GetFloat64Slice retrieves a float64 slice of exactly size length from the
// pool, along with a cleanup function the caller must invoke to return it.
func GetFloat64Slice(size int) ([]float64, func()) {
	ptr, _ := float64SlicePool.Get().(*[]float64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]float64, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { float64SlicePool.Put(ptr) }
}

// GetStringSlice retrieves a string slice of exactly size length from the
// pool, along with a cleanup function the caller must invoke to return it.
func GetStringSlice(size int) ([]string, func()) {
	ptr, _ := stringSlicePool.Get().(*[]string)
	if cap(*ptr) < size {
		*ptr = make([]string, size)
	} else {
		*ptr = (*ptr)[:size]
	}

	return *ptr, func() { stringSlicePool.Put(ptr) }
}
