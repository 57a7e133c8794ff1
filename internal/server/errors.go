package server

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

// ErrPortInUse reports that the listen address is already bound.
var ErrPortInUse = errors.New("port already in use")

// ErrRootNotDirectory reports a document root that is missing or not a directory.
var ErrRootNotDirectory = errors.New("document root is not a directory")

// wsaeaddrinuse is the Winsock error code for an occupied address.
const wsaeaddrinuse = 10048

// StartupError describes a failure to bring the server up.
type StartupError struct {
	Op   string // Operation that failed, e.g. "listen"
	Addr string // Address being bound
	Err  error  // Underlying error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// IsPortInUse reports whether err means the port is already bound.
func IsPortInUse(err error) bool {
	return errors.Is(err, ErrPortInUse)
}

// classifyListenError normalizes the platform specific "address in use"
// signatures to ErrPortInUse. Everything else is reported as is.
func classifyListenError(addr string, err error) error {
	if addrInUse(err) {
		return &StartupError{Op: "listen", Addr: addr, Err: fmt.Errorf("%w: %w", ErrPortInUse, err)}
	}
	return &StartupError{Op: "listen", Addr: addr, Err: err}
}

func addrInUse(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && uintptr(errno) == wsaeaddrinuse {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "address already in use") ||
		strings.Contains(msg, "only one usage of each socket address")
}
