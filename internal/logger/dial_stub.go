//go:build !unix

package logger

import "errors"

// dialSyslog always fails where there is no system log; the logger then
// stays on its stream.
func dialSyslog() (PriorityWriter, error) {
	return nil, errors.New("system log not available")
}
