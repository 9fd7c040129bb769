// Package shm holds the platform-specific mapping of named shared
// memory regions. The public surface lives in pkg/shm.
package shm

import "errors"

var (
	// ErrNotEnoughShmSpace reports that /dev/shm has less free space than
	// the requested region size.
	ErrNotEnoughShmSpace = errors.New("shared memory has not enough free space")

	// ErrPlatformNotSupported reports that this platform has no shared
	// memory implementation.
	ErrPlatformNotSupported = errors.New("shared memory is not supported on this platform")
)

// MapType says how a region's backing memory was obtained.
type MapType int

const (
	// MapTypeDevShmFile is a named file under /dev/shm, attachable by path.
	MapTypeDevShmFile MapType = iota
	// MapTypeMemFd is an anonymous memfd, attachable by inherited or
	// passed file descriptor.
	MapTypeMemFd
)

// MapOptions configures MapRegion.
type MapOptions struct {
	// Name identifies the region under /dev/shm.
	Name string
	// Size is the region size in bytes; ignored when attaching to an
	// existing region.
	Size int
	// Create makes the backing file; it must not already exist.
	Create bool
}

// MappedRegion is a live shared memory mapping.
type MappedRegion struct {
	Data []byte
	Path string
	Fd   int
	Type MapType
}
