// Package errno renders operating system errors in the "error N (text)" form
// used by mempig's log lines.
package errno

import (
	"errors"
	"fmt"
	"syscall"
)

// Describe returns "error <code> (<message>)" if err wraps a [syscall.Errno],
// otherwise the plain error text.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var en syscall.Errno
	if errors.As(err, &en) {
		return fmt.Sprintf("error %d (%s)", int(en), en.Error())
	}

	return err.Error()
}
