package shm

import (
	"fmt"
	"unsafe"
)

// The At accessors return pointers into the mapping for use with
// pkg/atomicops. Offsets are validated for range and natural alignment
// here so the primitives themselves can stay unchecked.

// Uint64At returns the 8-byte word at off.
func (r *Region) Uint64At(off int) (*uint64, error) {
	if err := r.check(off, 8); err != nil {
		return nil, err
	}
	return (*uint64)(unsafe.Pointer(&r.region.Data[off])), nil
}

// Uint32At returns the 4-byte word at off.
func (r *Region) Uint32At(off int) (*uint32, error) {
	if err := r.check(off, 4); err != nil {
		return nil, err
	}
	return (*uint32)(unsafe.Pointer(&r.region.Data[off])), nil
}

// Uint16At returns the 2-byte word at off.
func (r *Region) Uint16At(off int) (*uint16, error) {
	if err := r.check(off, 2); err != nil {
		return nil, err
	}
	return (*uint16)(unsafe.Pointer(&r.region.Data[off])), nil
}

// Uint8At returns the byte at off.
func (r *Region) Uint8At(off int) (*uint8, error) {
	if err := r.check(off, 1); err != nil {
		return nil, err
	}
	return &r.region.Data[off], nil
}

// Uint64Slice views the whole region as 8-byte words. The region size
// must be a multiple of 8.
func (r *Region) Uint64Slice() ([]uint64, error) {
	n := len(r.region.Data)
	if n%8 != 0 {
		return nil, fmt.Errorf("%w: region size %d is not a multiple of 8", ErrInvalidSize, n)
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(&r.region.Data[0])), n/8), nil
}

func (r *Region) check(off, width int) error {
	if off < 0 || off+width > len(r.region.Data) {
		return fmt.Errorf("%w: offset %d width %d in region of %d bytes",
			ErrOffsetOutOfRange, off, width, len(r.region.Data))
	}
	if off%width != 0 {
		return fmt.Errorf("%w: offset %d for width %d", ErrMisalignedOffset, off, width)
	}
	return nil
}
