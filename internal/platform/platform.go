// Package platform maps the host operating system to the commands the server
// needs from it.
package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrNoOpener is returned for platforms without a known URL opener.
var ErrNoOpener = errors.New("no URL opener known for platform")

// Platform represents a host OS/Architecture combination
type Platform struct {
	OS   string // windows, mac, linux, bsd
	Arch string // x64, aarch64, x86, or GOARCH as is
}

// String returns the os-arch classifier, e.g. "linux-x64".
func (p Platform) String() string {
	return fmt.Sprintf("%s-%s", p.OS, p.Arch)
}

// CurrentPlatform returns the platform for the current system
func CurrentPlatform() Platform {
	return FromGo(runtime.GOOS, runtime.GOARCH)
}

// FromGo builds a Platform from GOOS/GOARCH values.
func FromGo(goos, goarch string) Platform {
	return Platform{OS: mapOS(goos), Arch: mapArch(goarch)}
}

// mapOS converts Go's GOOS to our platform OS naming
func mapOS(goos string) string {
	switch goos {
	case "windows":
		return "windows"
	case "darwin", "ios":
		return "mac"
	case "freebsd", "openbsd", "netbsd", "dragonfly":
		return "bsd"
	case "linux", "android":
		return "linux"
	default:
		return goos
	}
}

// mapArch converts Go's GOARCH to our platform architecture naming
func mapArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "arm64":
		return "aarch64"
	case "386":
		return "x86"
	default:
		return goarch
	}
}

// OpenCommand returns the command line that opens url in the user's default
// browser.
func (p Platform) OpenCommand(url string) (string, []string, error) {
	switch p.OS {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	case "mac":
		return "open", []string{url}, nil
	case "linux", "bsd":
		return "xdg-open", []string{url}, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrNoOpener, p.OS)
	}
}
