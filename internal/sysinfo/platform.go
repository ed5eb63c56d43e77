package sysinfo

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Provider supplies the platform facts of the running process and the
// revision its sources were built from. Every method returns the same value
// on every call.
type Provider interface {
	Platform() string
	OSVersion() string
	CPU() string
	Arch() string
	Compiler() string
	CFlags() string
	Source() Revision
}

// Provider modes accepted by NewProvider.
const (
	ModeAuto     = "auto"
	ModeSnapshot = "snapshot"
	ModeProbe    = "probe"
)

// NewProvider selects a Provider. ModeAuto picks the snapshot when the binary
// was stamped at build time and probes the host otherwise. The resolver is
// only used when probing.
func NewProvider(mode string, source *Resolver) (Provider, error) {
	switch mode {
	case ModeSnapshot:
		return NewSnapshot(), nil
	case ModeProbe:
		return NewProbed(source), nil
	case ModeAuto, "":
		if Stamped() {
			return NewSnapshot(), nil
		}
		return NewProbed(source), nil
	default:
		return nil, fmt.Errorf("unknown facts mode %q", mode)
	}
}

// archName maps a GOARCH to the architecture names used in banners.
func archName(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm", "arm64":
		return "ARM"
	default:
		return "Unknown"
	}
}

func platformName(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "Darwin"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	case "openbsd":
		return "OpenBSD"
	case "netbsd":
		return "NetBSD"
	case "dragonfly":
		return "DragonFly"
	case "solaris":
		return "SunOS"
	case "aix":
		return "AIX"
	default:
		return goos
	}
}

func compilerName() string {
	return fmt.Sprintf("Go %s (%s)", strings.TrimPrefix(runtime.Version(), "go"), runtime.Compiler)
}

func fallbackCPU() string {
	return fmt.Sprintf("%s CPU [%d]", archName(runtime.GOARCH), runtime.NumCPU())
}

// is64Bit reports whether this is a 64 bit build.
func is64Bit() bool {
	return strconv.IntSize == 64
}
