package memory

import (
	"fmt"
	"math"
)

// WordSize is the granularity of the amount and of [Region.Touch].
const WordSize = 4

// MaxSize is the largest region that can be mapped: the range of int, which
// bounds both mmap lengths and slice lengths.
const MaxSize = math.MaxInt

// ValidateSize checks an amount of bytes and converts it to a mapping length.
// Amounts that are not positive, not a multiple of [WordSize] or larger than
// [MaxSize] are rejected, checked in that order.
func ValidateSize(amount int64) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidSize, amount)
	}

	if amount%WordSize != 0 {
		return 0, fmt.Errorf("%w: amount must be a multiple of %d, got %d", ErrInvalidSize, WordSize, amount)
	}

	if uint64(amount) > uint64(MaxSize) {
		return 0, fmt.Errorf(
			"%w: amount %d is greater than the maximum range of int, which is %d",
			ErrInvalidSize,
			amount,
			MaxSize,
		)
	}

	return int(amount), nil
}
