package memory

import (
	"errors"
	"fmt"

	"dbohdan.com/mempig/internal/errno"
)

var (
	ErrInvalidSize = errors.New("invalid amount")
	ErrUnsupported = errors.New("anonymous memory mapping not supported on this platform")
)

// AllocationError is returned when the operating system refuses to map the
// requested region.
type AllocationError struct {
	Size int
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("mmap of %d bytes failed: %s", e.Size, errno.Describe(e.Err))
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// PinError is returned when the operating system refuses to lock the region
// into physical memory.
type PinError struct {
	Size int
	Err  error
}

func (e *PinError) Error() string {
	return fmt.Sprintf("mlock of %d bytes failed: %s", e.Size, errno.Describe(e.Err))
}

func (e *PinError) Unwrap() error {
	return e.Err
}
