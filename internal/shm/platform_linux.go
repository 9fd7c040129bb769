//go:build linux

package shm

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/sys/unix"
)

const devShmDir = "/dev/shm"

// MapRegion creates or attaches a named region under /dev/shm and maps
// it shared and writable. When attaching, the whole backing file is
// mapped regardless of opts.Size.
func MapRegion(opts MapOptions) (*MappedRegion, error) {
	shmPath := filepath.Join(devShmDir, opts.Name)
	size := opts.Size
	flags := unix.O_RDWR | unix.O_CLOEXEC
	if opts.Create {
		if pathExists(shmPath) {
			return nil, fmt.Errorf("shared memory region already exists, path %s", shmPath)
		}
		if !canCreateOnDevShm(uint64(size)) {
			return nil, fmt.Errorf("%w: path %s, size %d", ErrNotEnoughShmSpace, shmPath, size)
		}
		flags |= unix.O_CREAT
	}
	fd, err := unix.Open(shmPath, flags, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", shmPath, err)
	}
	if opts.Create {
		if err := unix.Ftruncate(fd, int64(size)); err != nil {
			_ = unix.Close(fd)
			_ = os.Remove(shmPath)
			return nil, fmt.Errorf("ftruncate %s: %w", shmPath, err)
		}
	} else {
		var st unix.Stat_t
		if err := unix.Fstat(fd, &st); err != nil {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("fstat %s: %w", shmPath, err)
		}
		size = int(st.Size)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		if opts.Create {
			_ = os.Remove(shmPath)
		}
		return nil, fmt.Errorf("mmap %s: %w", shmPath, err)
	}
	return &MappedRegion{
		Data: data,
		Path: shmPath,
		Fd:   fd,
		Type: MapTypeDevShmFile,
	}, nil
}

// MapMemFd creates an anonymous memfd-backed region. The descriptor in
// the returned region can be handed to a child process for attachment.
func MapMemFd(name string, size int) (*MappedRegion, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("memfd_create %s: %w", name, err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("ftruncate memfd %s: %w", name, err)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("mmap memfd %s: %w", name, err)
	}
	return &MappedRegion{
		Data: data,
		Path: name,
		Fd:   fd,
		Type: MapTypeMemFd,
	}, nil
}

// MapExistingMemFd maps a memfd created elsewhere, typically inherited
// across fork/exec.
func MapExistingMemFd(name string, fd int) (*MappedRegion, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, fmt.Errorf("fstat memfd %d: %w", fd, err)
	}
	data, err := unix.Mmap(fd, 0, int(st.Size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap memfd %d: %w", fd, err)
	}
	return &MappedRegion{
		Data: data,
		Path: name,
		Fd:   fd,
		Type: MapTypeMemFd,
	}, nil
}

// UnmapRegion releases the mapping. A /dev/shm-backed region created by
// this process is removed from the filesystem when remove is true.
func UnmapRegion(r *MappedRegion, remove bool) error {
	if r == nil || r.Data == nil {
		return nil
	}
	if err := unix.Munmap(r.Data); err != nil {
		return fmt.Errorf("munmap %s: %w", r.Path, err)
	}
	r.Data = nil
	if err := unix.Close(r.Fd); err != nil {
		return fmt.Errorf("close %s: %w", r.Path, err)
	}
	if remove && r.Type == MapTypeDevShmFile {
		if err := os.Remove(r.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", r.Path, err)
		}
	}
	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// canCreateOnDevShm errs on the side of letting mmap fail later if the
// usage probe itself fails.
func canCreateOnDevShm(need uint64) bool {
	stat, err := disk.Usage(devShmDir)
	if err != nil {
		return true
	}
	return stat.Free >= need
}
