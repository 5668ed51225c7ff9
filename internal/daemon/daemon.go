// Package daemon detaches mempig from its terminal and session.
//
// [Detach] runs a fixed sequence of steps against a [System]. The order is
// part of the contract: the logger goes to the system log before anything
// else can fail, the session is left before the standard streams are
// redirected, and every failure stops the sequence.
package daemon

import (
	"errors"
	"fmt"

	"dbohdan.com/mempig/internal/errno"
)

// NullDevice is the sink the standard streams are redirected to.
const NullDevice = "/dev/null"

// Standard stream descriptors.
const (
	stdin  = 0
	stdout = 1
	stderr = 2
)

// Names of the steps, as reported in [Error.Step].
const (
	StepFork      = "fork"
	StepOpenNull  = "open " + NullDevice
	StepSetsid    = "setsid"
	StepChdir     = "chdir(/)"
	StepStdin     = "dup " + NullDevice + " to stdin"
	StepStdout    = "dup " + NullDevice + " to stdout"
	StepStderr    = "dup " + NullDevice + " to stderr"
	StepCloseNull = "close " + NullDevice
)

// ErrParent is returned by [Detach] in the original process once the
// background copy is running. The caller is expected to exit successfully.
var ErrParent = errors.New("daemon: background process started")

// Error reports the step of the sequence that failed.
type Error struct {
	Step string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("daemonize: %s failed: %s", e.Step, errno.Describe(e.Err))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// System is the set of operating system calls [Detach] is made of.
type System interface {
	// Fork starts the background copy. It reports whether the caller is
	// that copy.
	Fork() (child bool, err error)
	OpenNull() (fd int, err error)
	Umask(mask int) (old int)
	Setsid() (sid int, err error)
	Chdir(dir string) error
	Dup2(oldfd, newfd int) error
	Close(fd int) error
}

// Logger is switched to the system log once the process is the background
// copy.
type Logger interface {
	UseSyslog(use bool)
}

// Detach turns the calling process into a daemon. In the original process it
// returns [ErrParent] after the background copy was started; in the copy it
// returns nil once the copy has its own session, "/" as working directory and
// the null device as standard streams.
func Detach(sys System, log Logger) error {
	child, err := sys.Fork()
	if err != nil {
		return &Error{Step: StepFork, Err: err}
	}

	if !child {
		return ErrParent
	}

	log.UseSyslog(true)

	nullFD, err := sys.OpenNull()
	if err != nil {
		return &Error{Step: StepOpenNull, Err: err}
	}

	sys.Umask(0)

	if _, err := sys.Setsid(); err != nil {
		return &Error{Step: StepSetsid, Err: err}
	}

	if err := sys.Chdir("/"); err != nil {
		return &Error{Step: StepChdir, Err: err}
	}

	redirects := []struct {
		fd   int
		step string
	}{
		{stdin, StepStdin},
		{stdout, StepStdout},
		{stderr, StepStderr},
	}

	for _, r := range redirects {
		if err := sys.Dup2(nullFD, r.fd); err != nil {
			return &Error{Step: r.step, Err: err}
		}
	}

	if err := sys.Close(nullFD); err != nil {
		return &Error{Step: StepCloseNull, Err: err}
	}

	return nil
}
