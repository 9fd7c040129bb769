// Package atomicops provides a uniform set of atomic read-modify-write
// primitives over 8, 16, 32 and 64-bit unsigned words.
//
// The 32 and 64-bit operations map directly onto sync/atomic. The 8 and
// 16-bit operations are implemented as compare-and-swap loops on the
// aligned 32-bit word containing the operand; they never disturb the
// neighboring bytes, but concurrent non-atomic writes to bytes sharing
// that word may be lost. Access sub-word operands only through this
// package if they share a 32-bit word with other live data.
//
// All read-modify-write operations are sequentially consistent, which is
// stronger than the acquire/release ordering the LoadAcquire and
// StoreRelease names suggest. Callers get at least the ordering they ask
// for.
//
// A 16-bit operand must be 2-byte aligned, a 32-bit operand 4-byte
// aligned and a 64-bit operand 8-byte aligned. Misaligned or invalid
// addresses are not checked.
package atomicops

import (
	"sync/atomic"
	"unsafe"
)

// Uint is the set of word widths the primitives operate on.
type Uint interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Set atomically performs *p |= v.
func Set[T Uint](p *T, v T) {
	switch sz := unsafe.Sizeof(*p); sz {
	case 1, 2:
		orSmall(unsafe.Pointer(p), sz, uint32(v))
	case 4:
		atomic.OrUint32((*uint32)(unsafe.Pointer(p)), uint32(v))
	default:
		atomic.OrUint64((*uint64)(unsafe.Pointer(p)), uint64(v))
	}
}

// Clear atomically performs *p &^= v.
func Clear[T Uint](p *T, v T) {
	switch sz := unsafe.Sizeof(*p); sz {
	case 1, 2:
		andSmall(unsafe.Pointer(p), sz, ^uint32(v))
	case 4:
		atomic.AndUint32((*uint32)(unsafe.Pointer(p)), ^uint32(v))
	default:
		atomic.AndUint64((*uint64)(unsafe.Pointer(p)), ^uint64(v))
	}
}

// Add atomically performs *p += v.
func Add[T Uint](p *T, v T) {
	_ = FetchAdd(p, v)
}

// Subtract atomically performs *p -= v.
func Subtract[T Uint](p *T, v T) {
	_ = FetchSubtract(p, v)
}

// FetchAdd atomically performs *p += v and returns the value *p held
// before the addition.
func FetchAdd[T Uint](p *T, v T) T {
	switch sz := unsafe.Sizeof(*p); sz {
	case 1, 2:
		return T(addSmall(unsafe.Pointer(p), sz, uint32(v)))
	case 4:
		// AddUint32 returns the new value; recover the old one.
		x := atomic.AddUint32((*uint32)(unsafe.Pointer(p)), uint32(v))
		return T(x - uint32(v))
	default:
		x := atomic.AddUint64((*uint64)(unsafe.Pointer(p)), uint64(v))
		return T(x - uint64(v))
	}
}

// FetchSubtract atomically performs *p -= v and returns the value *p
// held before the subtraction.
func FetchSubtract[T Uint](p *T, v T) T {
	switch sz := unsafe.Sizeof(*p); sz {
	case 1, 2:
		// Two's complement; the width mask makes the wrap-around exact.
		return T(addSmall(unsafe.Pointer(p), sz, ^uint32(v)+1))
	case 4:
		x := atomic.AddUint32((*uint32)(unsafe.Pointer(p)), ^uint32(v)+1)
		return T(x + uint32(v))
	default:
		x := atomic.AddUint64((*uint64)(unsafe.Pointer(p)), ^uint64(v)+1)
		return T(x + uint64(v))
	}
}

// CompareAndSwap atomically replaces *p with new if *p equals old,
// reporting whether the swap happened. On failure *p is left unchanged.
func CompareAndSwap[T Uint](p *T, old, new T) bool {
	switch sz := unsafe.Sizeof(*p); sz {
	case 1, 2:
		return casSmall(unsafe.Pointer(p), sz, uint32(old), uint32(new))
	case 4:
		return atomic.CompareAndSwapUint32((*uint32)(unsafe.Pointer(p)), uint32(old), uint32(new))
	default:
		return atomic.CompareAndSwapUint64((*uint64)(unsafe.Pointer(p)), uint64(old), uint64(new))
	}
}

// ReadAndClear atomically exchanges *p with zero, returning the prior
// value.
func ReadAndClear[T Uint](p *T) T {
	switch sz := unsafe.Sizeof(*p); sz {
	case 1, 2:
		return T(swapSmall(unsafe.Pointer(p), sz, 0))
	case 4:
		return T(atomic.SwapUint32((*uint32)(unsafe.Pointer(p)), 0))
	default:
		return T(atomic.SwapUint64((*uint64)(unsafe.Pointer(p)), 0))
	}
}

// LoadAcquire atomically loads *p with at least acquire ordering: no
// later access in program order is reordered before the load.
func LoadAcquire[T Uint](p *T) T {
	switch sz := unsafe.Sizeof(*p); sz {
	case 1, 2:
		return T(loadSmall(unsafe.Pointer(p), sz))
	case 4:
		return T(atomic.LoadUint32((*uint32)(unsafe.Pointer(p))))
	default:
		return T(atomic.LoadUint64((*uint64)(unsafe.Pointer(p))))
	}
}

// StoreRelease atomically stores v into *p with at least release
// ordering: no earlier access in program order is reordered after the
// store.
func StoreRelease[T Uint](p *T, v T) {
	switch sz := unsafe.Sizeof(*p); sz {
	case 1, 2:
		storeSmall(unsafe.Pointer(p), sz, uint32(v))
	case 4:
		atomic.StoreUint32((*uint32)(unsafe.Pointer(p)), uint32(v))
	default:
		atomic.StoreUint64((*uint64)(unsafe.Pointer(p)), uint64(v))
	}
}
