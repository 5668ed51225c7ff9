//go:build !unix

package memory

var (
	mmap = func(int) ([]byte, error) {
		return nil, ErrUnsupported
	}
	mlock = func([]byte) error {
		return ErrUnsupported
	}
	munmap = func([]byte) error {
		return ErrUnsupported
	}
)
