//go:build !linux

package shm

// MapRegion is unsupported off Linux.
func MapRegion(opts MapOptions) (*MappedRegion, error) {
	return nil, ErrPlatformNotSupported
}

// MapMemFd is unsupported off Linux.
func MapMemFd(name string, size int) (*MappedRegion, error) {
	return nil, ErrPlatformNotSupported
}

// MapExistingMemFd is unsupported off Linux.
func MapExistingMemFd(name string, fd int) (*MappedRegion, error) {
	return nil, ErrPlatformNotSupported
}

// UnmapRegion is unsupported off Linux.
func UnmapRegion(r *MappedRegion, remove bool) error {
	return ErrPlatformNotSupported
}
