//go:build !linux

package daemon

import "errors"

var errUnsupported = errors.New("daemonizing is only supported on Linux")

func IsDetached() bool {
	return false
}

// OS refuses to daemonize on platforms other than Linux.
type OS struct{}

func (OS) Fork() (bool, error) { return false, errUnsupported }
func (OS) OpenNull() (int, error) { return -1, errUnsupported }
func (OS) Umask(int) int { return 0 }
func (OS) Setsid() (int, error) { return -1, errUnsupported }
func (OS) Chdir(string) error { return errUnsupported }
func (OS) Dup2(int, int) error { return errUnsupported }
func (OS) Close(int) error { return errUnsupported }
