package server

import (
	"errors"
	"net"
	"os"
	"syscall"
	"testing"
)

func TestClassifyListenError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantInUse bool
	}{
		{
			name:      "EADDRINUSE wrapped in OpError",
			err:       &net.OpError{Op: "listen", Net: "tcp", Err: os.NewSyscallError("bind", syscall.EADDRINUSE)},
			wantInUse: true,
		},
		{
			name:      "winsock 10048",
			err:       &net.OpError{Op: "listen", Net: "tcp", Err: os.NewSyscallError("bind", syscall.Errno(10048))},
			wantInUse: true,
		},
		{
			name:      "message only",
			err:       errors.New("listen tcp :8000: bind: address already in use"),
			wantInUse: true,
		},
		{
			name:      "windows message",
			err:       errors.New("bind: Only one usage of each socket address (protocol/network address/port) is normally permitted."),
			wantInUse: true,
		},
		{
			name:      "permission denied",
			err:       &net.OpError{Op: "listen", Net: "tcp", Err: os.NewSyscallError("bind", syscall.EACCES)},
			wantInUse: false,
		},
		{
			name:      "unknown host",
			err:       errors.New("listen tcp: lookup nosuchhost: no such host"),
			wantInUse: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyListenError(":8000", tt.err)

			var startupErr *StartupError
			if !errors.As(err, &startupErr) {
				t.Fatalf("error %T is not a *StartupError", err)
			}
			if startupErr.Addr != ":8000" {
				t.Errorf("Addr = %q", startupErr.Addr)
			}
			if got := IsPortInUse(err); got != tt.wantInUse {
				t.Errorf("IsPortInUse() = %v, want %v", got, tt.wantInUse)
			}
			if !errors.Is(err, tt.err) {
				t.Error("original error is not reachable through Unwrap")
			}
		})
	}
}

func TestStartupError_Error(t *testing.T) {
	err := &StartupError{Op: "listen", Addr: ":8000", Err: errors.New("boom")}
	if got, want := err.Error(), "listen :8000: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAddrInUse_Nil(t *testing.T) {
	if addrInUse(nil) {
		t.Error("addrInUse(nil) = true")
	}
}
