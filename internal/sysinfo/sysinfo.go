// Package sysinfo reports facts about the build and the host a server runs
// on: platform, OS version, CPU, architecture, compiler and the revision of
// the working copy the binary and its scripts came from.
//
// Revisions are read from Git ref files or Subversion working copy metadata
// on a best-effort basis. Missing or unreadable metadata is not an error; the
// revision is then empty and the VCS type reads "Exported".
package sysinfo

import "log/slog"

// Field names one of the string facts a SysInfo reports.
type Field int

const (
	FieldPlatform Field = iota
	FieldOSVersion
	FieldCPU
	FieldArch
	FieldCompiler
	FieldCFlags
	FieldVCSType
	FieldSourceRevision
	FieldScriptsRevision
)

// Fields lists every Field in display order.
var Fields = []Field{
	FieldPlatform,
	FieldOSVersion,
	FieldCPU,
	FieldArch,
	FieldCompiler,
	FieldCFlags,
	FieldVCSType,
	FieldSourceRevision,
	FieldScriptsRevision,
}

var fieldNames = map[Field]string{
	FieldPlatform:        "platform",
	FieldOSVersion:       "os_version",
	FieldCPU:             "cpu",
	FieldArch:            "arch",
	FieldCompiler:        "compiler",
	FieldCFlags:          "cflags",
	FieldVCSType:         "vcs_type",
	FieldSourceRevision:  "source_revision",
	FieldScriptsRevision: "scripts_revision",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// Report is a point in time copy of every fact.
type Report struct {
	Platform        string `json:"platform"`
	OSVersion       string `json:"os_version"`
	CPU             string `json:"cpu"`
	Arch            string `json:"arch"`
	Is64Bit         bool   `json:"is_64bit"`
	Compiler        string `json:"compiler"`
	CFlags          string `json:"cflags"`
	VCSType         string `json:"vcs_type"`
	SourceRevision  string `json:"source_revision"`
	ScriptsRevision string `json:"scripts_revision"`
	ScriptsVCSType  string `json:"scripts_vcs_type"`
}

// LogValue renders the report as a group, for startup banners.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("platform", r.Platform),
		slog.String("os_version", r.OSVersion),
		slog.String("cpu", r.CPU),
		slog.String("arch", r.Arch),
		slog.Bool("is_64bit", r.Is64Bit),
		slog.String("compiler", r.Compiler),
		slog.String("cflags", r.CFlags),
		slog.String("vcs_type", r.VCSType),
		slog.String("source_revision", r.SourceRevision),
		slog.String("scripts_revision", r.ScriptsRevision),
		slog.String("scripts_vcs_type", r.ScriptsVCSType),
	)
}

// SysInfo is the process wide holder of environment facts. Build one at
// startup and share it; all methods are safe for concurrent use.
//
// The source revision reflects the working copy at the time it was first
// queried and never changes afterwards. The scripts revision is resolved on
// first read and again on every ReloadScriptsRevision, so the two can drift
// apart when the scripts tree is updated while the process runs.
type SysInfo struct {
	facts   Provider
	scripts *Reloadable[Revision]
}

// New returns a SysInfo reading platform facts and the source revision from
// facts, and the scripts revision from scripts.
func New(facts Provider, scripts *Resolver) *SysInfo {
	return &SysInfo{
		facts:   facts,
		scripts: NewReloadable(scripts.Resolve),
	}
}

func (s *SysInfo) Platform() string  { return s.facts.Platform() }
func (s *SysInfo) OSVersion() string { return s.facts.OSVersion() }
func (s *SysInfo) CPU() string       { return s.facts.CPU() }
func (s *SysInfo) Arch() string      { return s.facts.Arch() }
func (s *SysInfo) Is64Bit() bool     { return is64Bit() }
func (s *SysInfo) Compiler() string  { return s.facts.Compiler() }
func (s *SysInfo) CFlags() string    { return s.facts.CFlags() }

// VCSKind resolves the source revision if needed and returns its kind.
func (s *SysInfo) VCSKind() VCSKind {
	return s.facts.Source().Kind
}

// VCSType is VCSKind as displayed: "Git", "SVN" or "Exported".
func (s *SysInfo) VCSType() string {
	return s.VCSKind().String()
}

// SourceRevision is the revision the binary was built from, or empty.
func (s *SysInfo) SourceRevision() string {
	return s.facts.Source().ID
}

// ScriptsRevision is the revision of the scripts tree as of the last reload,
// or empty.
func (s *SysInfo) ScriptsRevision() string {
	return s.scripts.Get().ID
}

// ScriptsVCSKind is the kind of the scripts revision, which need not match
// VCSKind when the scripts live in a separate tree.
func (s *SysInfo) ScriptsVCSKind() VCSKind {
	return s.scripts.Get().Kind
}

// ReloadScriptsRevision probes the scripts tree again and replaces the cached
// scripts revision with the outcome, found or not.
func (s *SysInfo) ReloadScriptsRevision() Revision {
	return s.scripts.Reload()
}

// Get returns the value of a single field.
func (s *SysInfo) Get(f Field) string {
	switch f {
	case FieldPlatform:
		return s.Platform()
	case FieldOSVersion:
		return s.OSVersion()
	case FieldCPU:
		return s.CPU()
	case FieldArch:
		return s.Arch()
	case FieldCompiler:
		return s.Compiler()
	case FieldCFlags:
		return s.CFlags()
	case FieldVCSType:
		return s.VCSType()
	case FieldSourceRevision:
		return s.SourceRevision()
	case FieldScriptsRevision:
		return s.ScriptsRevision()
	default:
		return ""
	}
}

// CopyField writes a field into dst following the CopyTruncate contract.
func (s *SysInfo) CopyField(f Field, dst []byte) int {
	if len(dst) == 0 {
		return 0
	}
	return CopyTruncate(dst, s.Get(f))
}

func (s *SysInfo) Report() Report {
	scripts := s.scripts.Get()
	return Report{
		Platform:        s.Platform(),
		OSVersion:       s.OSVersion(),
		CPU:             s.CPU(),
		Arch:            s.Arch(),
		Is64Bit:         s.Is64Bit(),
		Compiler:        s.Compiler(),
		CFlags:          s.CFlags(),
		VCSType:         s.VCSType(),
		SourceRevision:  s.SourceRevision(),
		ScriptsRevision: scripts.ID,
		ScriptsVCSType:  scripts.Kind.String(),
	}
}
