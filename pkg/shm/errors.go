package shm

import (
	"errors"

	internalshm "github.com/srediag/atomickit/internal/shm"
)

var (
	// ErrEmptyName reports a region with no identifier.
	ErrEmptyName = errors.New("shared memory region name is empty")

	// ErrInvalidSize reports a non-positive or unusable region size.
	ErrInvalidSize = errors.New("invalid shared memory region size")

	// ErrOffsetOutOfRange reports a word access past the mapping.
	ErrOffsetOutOfRange = errors.New("offset out of region range")

	// ErrMisalignedOffset reports a word access that is not naturally
	// aligned for its width.
	ErrMisalignedOffset = errors.New("misaligned offset for word width")

	// ErrNotEnoughShmSpace reports that /dev/shm cannot hold the region.
	ErrNotEnoughShmSpace = internalshm.ErrNotEnoughShmSpace

	// ErrPlatformNotSupported reports a platform without shared memory
	// support.
	ErrPlatformNotSupported = internalshm.ErrPlatformNotSupported
)
