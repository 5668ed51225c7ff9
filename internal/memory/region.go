// Package memory reserves, populates and locks anonymous memory regions.
package memory

import (
	"fmt"
	"unsafe"
)

// touchModulus bounds the values written by [Region.Touch].
const touchModulus = 50

// Region is a private anonymous mapping. It is owned by whoever called
// [Reserve] and is normally held until the process exits.
type Region struct {
	mem       []byte
	populated bool
	locked    bool
}

// Reserve maps size bytes of zeroed, readable and writable anonymous memory.
// The size is validated before any mapping is attempted.
func Reserve(size int) (*Region, error) {
	if _, err := ValidateSize(int64(size)); err != nil {
		return nil, err
	}

	mem, err := mmap(size)
	if err != nil {
		return nil, &AllocationError{Size: size, Err: err}
	}

	return &Region{mem: mem}, nil
}

func (r *Region) Len() int {
	return len(r.mem)
}

func (r *Region) Populated() bool {
	return r.populated
}

func (r *Region) Locked() bool {
	return r.locked
}

// Words returns the region as native-endian 32-bit words.
func (r *Region) Words() []uint32 {
	if len(r.mem) == 0 {
		return nil
	}

	// Mappings are page aligned, so the cast is aligned as well.
	return unsafe.Slice((*uint32)(unsafe.Pointer(&r.mem[0])), len(r.mem)/WordSize)
}

// Touch writes index mod 50 to every word so that each page gets backed by
// physical memory now rather than on first use. It returns the number of
// words written.
func (r *Region) Touch() int {
	words := r.Words()
	for i := range words {
		words[i] = uint32(i % touchModulus)
	}

	r.populated = true

	return len(words)
}

// Pin locks the region's pages into physical memory.
func (r *Region) Pin() error {
	if err := mlock(r.mem); err != nil {
		return &PinError{Size: len(r.mem), Err: err}
	}

	r.locked = true

	return nil
}

// Release unmaps the region. Unmapping also drops the lock. mempig itself
// never releases its region; this is for callers that reserve memory for a
// bounded time, such as tests.
func (r *Region) Release() error {
	if r.mem == nil {
		return nil
	}

	if err := munmap(r.mem); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}

	r.mem = nil
	r.populated = false
	r.locked = false

	return nil
}
