//go:build !unix

package server

import "syscall"

// On Windows SO_REUSEADDR lets a second process steal a bound port, so the
// socket is left with the platform defaults.
func reuseAddr(_, _ string, _ syscall.RawConn) error {
	return nil
}
