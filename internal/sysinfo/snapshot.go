package sysinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// Build-time facts, set with -ldflags. A binary built with BuildPlatform set
// is considered stamped and uses a Snapshot in ModeAuto.
//
//	go build -ldflags "-X 'github.com/rhettg/sysinfo/internal/sysinfo.BuildPlatform=$(uname -s)' \
//	    -X 'github.com/rhettg/sysinfo/internal/sysinfo.BuildOSVersion=...'"
var (
	BuildPlatform  string
	BuildOSVersion string
	BuildCPU       string
	BuildCFlags    string
	// BuildVCS is "git" or "svn"; BuildRevision is the matching revision.
	BuildVCS      string
	BuildRevision string
)

var readBuildInfo = debug.ReadBuildInfo

// cflagSettings are the build info settings reported as compiler flags.
var cflagSettings = []string{
	"-asmflags",
	"-gcflags",
	"-ldflags",
	"-tags",
	"CGO_CFLAGS",
	"CGO_CPPFLAGS",
	"CGO_CXXFLAGS",
	"CGO_LDFLAGS",
}

// Stamped reports whether platform facts were recorded at build time.
func Stamped() bool {
	return BuildPlatform != ""
}

// Snapshot is a Provider whose facts were all fixed when the binary was
// built. It never touches the filesystem.
type Snapshot struct {
	platform  string
	osVersion string
	cpu       string
	arch      string
	compiler  string
	cflags    string
	source    Revision
}

// NewSnapshot assembles the build-time facts. Values not stamped through
// ldflags fall back to compile-time constants and the vcs settings the Go
// toolchain records in the build info.
func NewSnapshot() *Snapshot {
	settings := buildSettings()

	s := &Snapshot{
		platform:  BuildPlatform,
		osVersion: BuildOSVersion,
		cpu:       BuildCPU,
		arch:      archName(runtime.GOARCH),
		compiler:  compilerName(),
		cflags:    BuildCFlags,
		source:    stampedRevision(),
	}

	if s.platform == "" {
		s.platform = platformName(runtime.GOOS)
	}
	if s.osVersion == "" {
		s.osVersion = "Unknown Version"
	}
	if s.cpu == "" {
		s.cpu = fallbackCPU()
	}
	if s.cflags == "" {
		s.cflags = buildFlags(settings)
	}
	if !s.source.Found() {
		s.source = buildRevision(settings)
	}

	return s
}

func (s *Snapshot) Platform() string  { return s.platform }
func (s *Snapshot) OSVersion() string { return s.osVersion }
func (s *Snapshot) CPU() string       { return s.cpu }
func (s *Snapshot) Arch() string      { return s.arch }
func (s *Snapshot) Compiler() string  { return s.compiler }
func (s *Snapshot) CFlags() string    { return s.cflags }
func (s *Snapshot) Source() Revision  { return s.source }

func buildSettings() map[string]string {
	settings := make(map[string]string)

	info, ok := readBuildInfo()
	if !ok {
		return settings
	}

	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	return settings
}

func parseKind(s string) VCSKind {
	switch strings.ToLower(s) {
	case "git":
		return KindGit
	case "svn":
		return KindSVN
	default:
		return KindNone
	}
}

func stampedRevision() Revision {
	kind := parseKind(BuildVCS)
	if kind == KindNone || BuildRevision == "" {
		return Revision{Kind: KindNone}
	}
	return Revision{Kind: kind, ID: truncate(BuildRevision, BufSize-1)}
}

func buildRevision(settings map[string]string) Revision {
	kind := parseKind(settings["vcs.system"])
	rev := settings["vcs.revision"]
	if kind == KindNone || rev == "" {
		return Revision{Kind: KindNone}
	}

	if kind == KindGit {
		rev = truncate(rev, gitRevisionMax)
	}
	return Revision{Kind: kind, ID: rev}
}

func buildFlags(settings map[string]string) string {
	var flags []string
	for _, key := range cflagSettings {
		if v := settings[key]; v != "" {
			flags = append(flags, key+"="+v)
		}
	}

	if len(flags) == 0 {
		return "N/A"
	}
	return strings.Join(flags, " ")
}
