// Package mempool keeps sized pools of scratch buffers used by the tracer
// so repeated contour queries on large grids do not churn the allocator.
package mempool

import (
	"sync"
)

var (
	uint8Pools sync.Map // key: size class (int), value: *sync.Pool
	boolPools  sync.Map // key: size class (int), value: *sync.Pool
)

// sizeClass rounds n up to the next multiple of 1024 with a floor of 1024.
func sizeClass(n int) int {
	if n <= 1024 {
		return 1024
	}
	const step = 1024
	r := (n + step - 1) / step
	return r * step
}

func poolFor[T any](pools *sync.Map, cls int) *sync.Pool {
	pAny, _ := pools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]T, cls) }})
	p, _ := pAny.(*sync.Pool)
	return p
}

func get[T any](pools *sync.Map, n int) []T {
	cls := sizeClass(n)
	p := poolFor[T](pools, cls)
	if p == nil {
		return make([]T, n)
	}
	buf, ok := p.Get().([]T)
	if !ok || cap(buf) < cls {
		buf = make([]T, cls)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}

func put[T any](pools *sync.Map, buf []T) {
	if buf == nil {
		return
	}
	cls := sizeClass(cap(buf))
	if cls != cap(buf) {
		// Not one of ours; a foreign capacity would poison the class.
		return
	}
	if p := poolFor[T](pools, cls); p != nil {
		p.Put(buf[:cap(buf)]) //nolint:staticcheck
	}
}

// GetUint8 returns a zeroed []uint8 of length n. Return it with PutUint8.
func GetUint8(n int) []uint8 {
	return get[uint8](&uint8Pools, n)
}

// PutUint8 returns a buffer to the pool. It is safe to pass a nil slice.
func PutUint8(buf []uint8) {
	put(&uint8Pools, buf)
}

// GetBool returns a zeroed []bool of length n. Return it with PutBool.
func GetBool(n int) []bool {
	return get[bool](&boolPools, n)
}

// PutBool returns a buffer to the pool. It is safe to pass a nil slice.
func PutBool(buf []bool) {
	put(&boolPools, buf)
}
