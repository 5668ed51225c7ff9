//go:build linux

package daemon

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	// detachedEnv carries the handshake token to the background copy.
	detachedEnv = "MEMPIG_DETACHED"
	// handshakeFD is the first descriptor of exec.Cmd.ExtraFiles.
	handshakeFD = 3
	tokenSize   = 16
)

// Replaced in tests.
var detached = sync.OnceValue(readHandshake)

// IsDetached reports whether the current process is a background copy
// started by [OS.Fork]. Setting the environment variable by hand is not
// enough: the copy must also receive the same token on an inherited pipe.
func IsDetached() bool {
	return detached()
}

func readHandshake() bool {
	token, ok := os.LookupEnv(detachedEnv)
	if !ok {
		return false
	}

	_ = os.Unsetenv(detachedEnv)

	f := os.NewFile(handshakeFD, "handshake")
	defer f.Close()

	return matchHandshake(token, f)
}

func matchHandshake(token string, r io.Reader) bool {
	if len(token) != 2*tokenSize {
		return false
	}

	got, err := io.ReadAll(io.LimitReader(r, int64(len(token))+1))

	return err == nil && string(got) == token
}

func newToken() (string, error) {
	b := make([]byte, tokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// OS implements [System] for Linux.
//
// The Go runtime cannot fork safely, so Fork starts the same executable again
// with the same arguments. The copy redoes everything that precedes [Detach]
// and then continues at the step after the fork.
type OS struct{}

func (OS) Fork() (bool, error) {
	if IsDetached() {
		return true, nil
	}

	executable, err := os.Executable()
	if err != nil {
		return false, fmt.Errorf("failed to get executable path: %w", err)
	}

	token, err := newToken()
	if err != nil {
		return false, fmt.Errorf("failed to generate handshake token: %w", err)
	}

	r, w, err := os.Pipe()
	if err != nil {
		return false, err
	}
	defer w.Close()

	// Leaving the standard streams unset connects them to the null device.
	cmd := exec.Command(executable, os.Args[1:]...)
	cmd.Env = append(os.Environ(), detachedEnv+"="+token)
	cmd.ExtraFiles = []*os.File{r}

	err = cmd.Start()
	r.Close()

	if err != nil {
		return false, err
	}

	if _, err := io.WriteString(w, token); err != nil {
		_ = cmd.Process.Kill()
		return false, fmt.Errorf("failed to send handshake: %w", err)
	}

	return false, cmd.Process.Release()
}

func (OS) OpenNull() (int, error) {
	return unix.Open(NullDevice, unix.O_RDONLY, 0)
}

func (OS) Umask(mask int) int {
	return unix.Umask(mask)
}

func (OS) Setsid() (int, error) {
	return unix.Setsid()
}

func (OS) Chdir(dir string) error {
	return unix.Chdir(dir)
}

func (OS) Dup2(oldfd, newfd int) error {
	return unix.Dup3(oldfd, newfd, 0)
}

func (OS) Close(fd int) error {
	return unix.Close(fd)
}
