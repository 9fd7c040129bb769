package atomicops

import (
	"sync/atomic"
	"unsafe"
)

// sync/atomic has no 8 or 16-bit operations, so sub-word operands are
// updated through compare-and-swap loops on the aligned 32-bit word that
// contains them. The containing word never crosses a page boundary, so
// widening the access cannot fault.

var bigEndian = func() bool {
	var x uint16 = 1
	return *(*byte)(unsafe.Pointer(&x)) == 0
}()

// wordOf locates the aligned 32-bit word holding the size-byte operand
// at p and the shift/mask selecting the operand within it.
func wordOf(p unsafe.Pointer, size uintptr) (word *uint32, shift uint, mask uint32) {
	word = (*uint32)(unsafe.Pointer(uintptr(p) &^ 3))
	off := uintptr(p) & 3
	if bigEndian {
		shift = uint(4-size-off) * 8
	} else {
		shift = uint(off) * 8
	}
	mask = (uint32(1)<<(8*size) - 1) << shift
	return
}

func loadSmall(p unsafe.Pointer, size uintptr) uint32 {
	word, shift, mask := wordOf(p, size)
	return (atomic.LoadUint32(word) & mask) >> shift
}

func storeSmall(p unsafe.Pointer, size uintptr, v uint32) {
	word, shift, mask := wordOf(p, size)
	v = v << shift & mask
	for {
		old := atomic.LoadUint32(word)
		if atomic.CompareAndSwapUint32(word, old, old&^mask|v) {
			return
		}
	}
}

func orSmall(p unsafe.Pointer, size uintptr, v uint32) {
	word, shift, _ := wordOf(p, size)
	atomic.OrUint32(word, v<<shift)
}

// andSmall applies *p &= v for the masked operand; bits outside the
// operand are left alone.
func andSmall(p unsafe.Pointer, size uintptr, v uint32) {
	word, shift, mask := wordOf(p, size)
	atomic.AndUint32(word, v<<shift&mask|^mask)
}

func addSmall(p unsafe.Pointer, size uintptr, v uint32) (old uint32) {
	word, shift, mask := wordOf(p, size)
	for {
		w := atomic.LoadUint32(word)
		old = (w & mask) >> shift
		nw := w&^mask | (old+v)<<shift&mask
		if atomic.CompareAndSwapUint32(word, w, nw) {
			return old
		}
	}
}

func casSmall(p unsafe.Pointer, size uintptr, old, new uint32) bool {
	word, shift, mask := wordOf(p, size)
	for {
		w := atomic.LoadUint32(word)
		if (w&mask)>>shift != old {
			return false
		}
		if atomic.CompareAndSwapUint32(word, w, w&^mask|new<<shift&mask) {
			return true
		}
		// A neighbor sharing the word changed; the operand may still
		// equal old, so go around again.
	}
}

func swapSmall(p unsafe.Pointer, size uintptr, v uint32) (old uint32) {
	word, shift, mask := wordOf(p, size)
	v = v << shift & mask
	for {
		w := atomic.LoadUint32(word)
		if atomic.CompareAndSwapUint32(word, w, w&^mask|v) {
			return (w & mask) >> shift
		}
	}
}
