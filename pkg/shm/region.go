// Package shm places atomically-accessed words in named shared memory
// regions, so the primitives in pkg/atomicops can coordinate across
// process boundaries.
//
// A region is a flat byte range; callers carve it into words through the
// typed At accessors and operate on the returned pointers with
// atomicops. Layout is the caller's contract between the cooperating
// processes.
package shm

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/trace"

	internalshm "github.com/srediag/atomickit/internal/shm"
)

// OpenOptions configures Open.
type OpenOptions struct {
	// Name identifies the region between processes.
	Name string

	// Size is the region size in bytes. Required when creating; ignored
	// when attaching (the existing region's size wins).
	Size int

	// Create makes a new region; it must not already exist. When false,
	// Open attaches to a region some other process created.
	Create bool

	// AttachTimeout bounds how long an attach waits for the creator to
	// show up, retrying with exponential backoff. Zero means a single
	// attempt.
	AttachTimeout time.Duration

	// Tracer, when set, records a span around the open.
	Tracer trace.Tracer
}

// Region is an open shared memory region.
type Region struct {
	name    string
	creator bool
	region  *internalshm.MappedRegion
}

// Open creates or attaches a named shared memory region.
func Open(ctx context.Context, opts OpenOptions) (*Region, error) {
	if opts.Tracer != nil {
		var span trace.Span
		ctx, span = opts.Tracer.Start(ctx, "shm.Open")
		defer span.End()
	}
	if opts.Name == "" {
		return nil, ErrEmptyName
	}
	if opts.Create && opts.Size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, opts.Size)
	}

	mapOpts := internalshm.MapOptions{Name: opts.Name, Size: opts.Size, Create: opts.Create}
	var mapped *internalshm.MappedRegion
	attempt := func() error {
		m, err := internalshm.MapRegion(mapOpts)
		if err != nil {
			// Attaching before the creator ran is the only retryable case.
			if !opts.Create && errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return backoff.Permanent(err)
		}
		mapped = m
		return nil
	}

	var err error
	if !opts.Create && opts.AttachTimeout > 0 {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = 2 * time.Millisecond
		bo.MaxElapsedTime = opts.AttachTimeout
		err = backoff.Retry(attempt, backoff.WithContext(bo, ctx))
	} else {
		err = attempt()
	}
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Unwrap()
		}
		return nil, err
	}

	internalLogger.infof("region %s: mapped %d bytes (create=%v)", opts.Name, len(mapped.Data), opts.Create)
	return &Region{name: opts.Name, creator: opts.Create, region: mapped}, nil
}

// OpenMemFd creates an anonymous memfd-backed region of size bytes. The
// region is reachable only through its descriptor (see Fd), typically
// inherited by a child process and attached with AttachMemFd.
func OpenMemFd(name string, size int) (*Region, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	mapped, err := internalshm.MapMemFd(name, size)
	if err != nil {
		return nil, err
	}
	internalLogger.infof("region %s: mapped %d bytes (memfd=%d)", name, len(mapped.Data), mapped.Fd)
	return &Region{name: name, creator: true, region: mapped}, nil
}

// AttachMemFd maps a memfd created by another process.
func AttachMemFd(name string, fd int) (*Region, error) {
	mapped, err := internalshm.MapExistingMemFd(name, fd)
	if err != nil {
		return nil, err
	}
	return &Region{name: name, region: mapped}, nil
}

// Name returns the region's identifier.
func (r *Region) Name() string { return r.name }

// Size returns the mapped size in bytes.
func (r *Region) Size() int { return len(r.region.Data) }

// Fd returns the backing file descriptor.
func (r *Region) Fd() int { return r.region.Fd }

// Bytes exposes the raw mapping. Non-atomic access to bytes that other
// processes update atomically is the caller's responsibility to avoid.
func (r *Region) Bytes() []byte { return r.region.Data }

// Close unmaps the region. The creator also removes the backing file, so
// late attachers get a clean failure instead of a stale region.
func (r *Region) Close() error {
	if err := internalshm.UnmapRegion(r.region, r.creator); err != nil {
		internalLogger.warnf("region %s: close error: %v", r.name, err)
		return err
	}
	internalLogger.infof("region %s: closed", r.name)
	return nil
}
