//go:build linux

package sysinfo

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
	"gopkg.in/ini.v1"
)

var osReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

func uname() (sysname, release string, ok bool) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		slog.Debug("uname failed", "error", err)
		return "", "", false
	}
	return unix.ByteSliceToString(uts.Sysname[:]), unix.ByteSliceToString(uts.Release[:]), true
}

func hostPlatform() string {
	if sysname, _, ok := uname(); ok && sysname != "" {
		return sysname
	}
	return platformName(runtime.GOOS)
}

func hostOSVersion() string {
	for _, path := range osReleasePaths {
		if name := osReleaseName(path); name != "" {
			return name
		}
	}

	if sysname, release, ok := uname(); ok {
		return strings.TrimSpace(sysname + " " + release)
	}
	return "Unknown Version"
}

// osReleaseName reads the distribution name from an os-release file.
func osReleaseName(path string) string {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		Loose:               true,
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		slog.Debug("failed reading os-release", "path", path, "error", err)
		return ""
	}

	sec := cfg.Section("")
	if pretty := sec.Key("PRETTY_NAME").String(); pretty != "" {
		return pretty
	}
	return strings.TrimSpace(sec.Key("NAME").String() + " " + sec.Key("VERSION").String())
}

func hostCPU() string {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		slog.Debug("failed opening procfs", "error", err)
		return fallbackCPU()
	}
	return cpuFromProc(fs)
}

// cpuFromProc names the first processor's model and appends the number of
// logical CPUs in brackets.
func cpuFromProc(fs procfs.FS) string {
	infos, err := fs.CPUInfo()
	if err != nil || len(infos) == 0 {
		slog.Debug("failed reading cpuinfo", "error", err)
		return fallbackCPU()
	}

	model := strings.Join(strings.Fields(infos[0].ModelName), " ")
	if model == "" {
		return fallbackCPU()
	}
	return fmt.Sprintf("%s [%d]", model, len(infos))
}
