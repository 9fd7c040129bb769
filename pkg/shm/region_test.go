package shm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/atomickit/pkg/atomicops"
)

func uniqueName(t *testing.T) string {
	return fmt.Sprintf("atomickit-test-%s-%d-%d", t.Name(), os.Getpid(), time.Now().UnixNano())
}

func openOrSkip(t *testing.T, opts OpenOptions) *Region {
	r, err := Open(context.Background(), opts)
	if errors.Is(err, ErrPlatformNotSupported) {
		t.Skip("shared memory not supported on this platform")
	}
	require.NoError(t, err)
	return r
}

func TestOpenCreateAndAttach(t *testing.T) {
	name := uniqueName(t)
	creator := openOrSkip(t, OpenOptions{Name: name, Size: 4096, Create: true})
	defer func() { _ = creator.Close() }()

	w, err := creator.Uint64At(64)
	require.NoError(t, err)
	atomicops.StoreRelease(w, 0xfeedface)

	attached, err := Open(context.Background(), OpenOptions{Name: name})
	require.NoError(t, err)
	defer func() { _ = attached.Close() }()
	assert.Equal(t, 4096, attached.Size())

	w2, err := attached.Uint64At(64)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xfeedface), atomicops.LoadAcquire(w2))
}

func TestOpenValidation(t *testing.T) {
	_, err := Open(context.Background(), OpenOptions{Size: 4096, Create: true})
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = Open(context.Background(), OpenOptions{Name: "x", Create: true})
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestCreateTwiceFails(t *testing.T) {
	name := uniqueName(t)
	creator := openOrSkip(t, OpenOptions{Name: name, Size: 4096, Create: true})
	defer func() { _ = creator.Close() }()

	_, err := Open(context.Background(), OpenOptions{Name: name, Size: 4096, Create: true})
	assert.Error(t, err)
}

func TestAttachMissingNoRetry(t *testing.T) {
	_, err := Open(context.Background(), OpenOptions{Name: uniqueName(t)})
	if errors.Is(err, ErrPlatformNotSupported) {
		t.Skip("shared memory not supported on this platform")
	}
	assert.Error(t, err)
}

func TestAttachWaitsForCreator(t *testing.T) {
	name := uniqueName(t)

	var creator *Region
	var creatorErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(50 * time.Millisecond)
		creator, creatorErr = Open(context.Background(), OpenOptions{Name: name, Size: 4096, Create: true})
	}()

	attached, err := Open(context.Background(), OpenOptions{Name: name, AttachTimeout: 2 * time.Second})
	if errors.Is(err, ErrPlatformNotSupported) {
		wg.Wait()
		t.Skip("shared memory not supported on this platform")
	}
	require.NoError(t, err)
	defer func() { _ = attached.Close() }()

	wg.Wait()
	require.NoError(t, creatorErr)
	defer func() { _ = creator.Close() }()
}

func TestAttachTimeoutExpires(t *testing.T) {
	_, err := Open(context.Background(), OpenOptions{Name: uniqueName(t), AttachTimeout: 100 * time.Millisecond})
	if errors.Is(err, ErrPlatformNotSupported) {
		t.Skip("shared memory not supported on this platform")
	}
	assert.Error(t, err)
}

func TestWordAccessorChecks(t *testing.T) {
	name := uniqueName(t)
	r := openOrSkip(t, OpenOptions{Name: name, Size: 4096, Create: true})
	defer func() { _ = r.Close() }()

	_, err := r.Uint64At(4096)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	_, err = r.Uint64At(-8)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	_, err = r.Uint64At(4)
	assert.ErrorIs(t, err, ErrMisalignedOffset)
	_, err = r.Uint32At(4094)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	_, err = r.Uint16At(3)
	assert.ErrorIs(t, err, ErrMisalignedOffset)

	b, err := r.Uint8At(4095)
	require.NoError(t, err)
	atomicops.Set(b, 0x80)
	assert.Equal(t, uint8(0x80), atomicops.LoadAcquire(b))

	words, err := r.Uint64Slice()
	require.NoError(t, err)
	assert.Len(t, words, 4096/8)
}

func TestSharedCounterAcrossMappings(t *testing.T) {
	name := uniqueName(t)
	creator := openOrSkip(t, OpenOptions{Name: name, Size: 4096, Create: true})
	defer func() { _ = creator.Close() }()
	attached, err := Open(context.Background(), OpenOptions{Name: name})
	require.NoError(t, err)
	defer func() { _ = attached.Close() }()

	w1, err := creator.Uint64At(0)
	require.NoError(t, err)
	w2, err := attached.Uint64At(0)
	require.NoError(t, err)

	// Two distinct mappings of the same physical word: no update may be
	// lost between them.
	const perSide = 20000
	var wg sync.WaitGroup
	wg.Add(2)
	for _, p := range []*uint64{w1, w2} {
		go func(p *uint64) {
			defer wg.Done()
			for i := 0; i < perSide; i++ {
				atomicops.FetchAdd(p, 1)
			}
		}(p)
	}
	wg.Wait()
	assert.Equal(t, uint64(2*perSide), atomicops.LoadAcquire(w1))
	assert.Equal(t, uint64(2*perSide), atomicops.LoadAcquire(w2))
}

func TestMemFdRegion(t *testing.T) {
	r, err := OpenMemFd("atomickit-memfd-test", 8192)
	if errors.Is(err, ErrPlatformNotSupported) {
		t.Skip("shared memory not supported on this platform")
	}
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	assert.Equal(t, 8192, r.Size())

	w, err := r.Uint32At(16)
	require.NoError(t, err)
	atomicops.Add(w, 7)

	second, err := AttachMemFd("atomickit-memfd-test", r.Fd())
	require.NoError(t, err)
	w2, err := second.Uint32At(16)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), atomicops.LoadAcquire(w2))
}
