package memory

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubSyscalls(t *testing.T, mmapFn func(int) ([]byte, error), mlockFn func([]byte) error) {
	t.Helper()

	origMmap, origMlock, origMunmap := mmap, mlock, munmap

	t.Cleanup(func() {
		mmap, mlock, munmap = origMmap, origMlock, origMunmap
	})

	mmap = mmapFn
	mlock = mlockFn
	munmap = func([]byte) error { return nil }
}

// aligned returns a word-aligned buffer like a real mapping would be.
func aligned(size int) []byte {
	words := make([]uint32, size/WordSize)
	if len(words) == 0 {
		return nil
	}

	return unsafeBytes(words)
}

func TestReserve_InvalidSizeDoesNotMap(t *testing.T) {
	calls := 0
	stubSyscalls(t,
		func(size int) ([]byte, error) {
			calls++
			return aligned(size), nil
		},
		func([]byte) error { return nil },
	)

	for _, size := range []int{-4, -1, 0, 1, 2, 3, 7, 1022} {
		_, err := Reserve(size)
		require.ErrorIs(t, err, ErrInvalidSize, "size %d", size)
	}

	assert.Zero(t, calls)
}

func TestReserve_AllocationError(t *testing.T) {
	stubSyscalls(t,
		func(int) ([]byte, error) { return nil, syscall.ENOMEM },
		func([]byte) error { return nil },
	)

	_, err := Reserve(4096)

	var allocErr *AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, 4096, allocErr.Size)
	require.ErrorIs(t, err, syscall.ENOMEM)
	assert.Contains(t, err.Error(), "mmap of 4096 bytes failed: error")
}

func TestRegion_PinError(t *testing.T) {
	stubSyscalls(t,
		func(size int) ([]byte, error) { return aligned(size), nil },
		func([]byte) error { return syscall.EAGAIN },
	)

	region, err := Reserve(64)
	require.NoError(t, err)

	err = region.Pin()

	var pinErr *PinError
	require.ErrorAs(t, err, &pinErr)
	assert.Equal(t, 64, pinErr.Size)
	require.ErrorIs(t, err, syscall.EAGAIN)
	assert.False(t, region.Locked())
}

func TestRegion_PinIgnoresPopulation(t *testing.T) {
	for _, populate := range []bool{true, false} {
		for _, mlockErr := range []error{nil, syscall.ENOMEM} {
			stubSyscalls(t,
				func(size int) ([]byte, error) { return aligned(size), nil },
				func([]byte) error { return mlockErr },
			)

			region, err := Reserve(1024)
			require.NoError(t, err)

			if populate {
				region.Touch()
			}

			err = region.Pin()
			assert.Equal(t, mlockErr == nil, err == nil, "populate=%v", populate)
			assert.Equal(t, populate, region.Populated())
		}
	}
}
