package sysinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubBuildInfo(t *testing.T, settings ...debug.BuildSetting) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: settings}, true
	}
	t.Cleanup(func() { readBuildInfo = orig })
}

func stamp(t *testing.T, platform, osVersion, cpu, vcs, revision string) {
	t.Helper()
	orig := []string{BuildPlatform, BuildOSVersion, BuildCPU, BuildVCS, BuildRevision}
	BuildPlatform, BuildOSVersion, BuildCPU, BuildVCS, BuildRevision = platform, osVersion, cpu, vcs, revision
	t.Cleanup(func() {
		BuildPlatform, BuildOSVersion, BuildCPU, BuildVCS, BuildRevision = orig[0], orig[1], orig[2], orig[3], orig[4]
	})
}

func TestArchName(t *testing.T) {
	assert.Equal(t, "x86_64", archName("amd64"))
	assert.Equal(t, "x86", archName("386"))
	assert.Equal(t, "ARM", archName("arm"))
	assert.Equal(t, "ARM", archName("arm64"))
	assert.Equal(t, "Unknown", archName("riscv64"))
}

func TestPlatformName(t *testing.T) {
	assert.Equal(t, "Linux", platformName("linux"))
	assert.Equal(t, "Darwin", platformName("darwin"))
	assert.Equal(t, "Windows", platformName("windows"))
	assert.Equal(t, "plan9", platformName("plan9"))
}

func TestCompilerName(t *testing.T) {
	name := compilerName()
	assert.True(t, strings.HasPrefix(name, "Go "))
	assert.Contains(t, name, runtime.Compiler)
}

func TestBuildFlags(t *testing.T) {
	assert.Equal(t, "N/A", buildFlags(map[string]string{}))
	assert.Equal(t, "-gcflags=-N -l -tags=netgo", buildFlags(map[string]string{
		"-tags":     "netgo",
		"-gcflags":  "-N -l",
		"GOOS":      "linux",
		"vcs.dirty": "true",
	}))
}

func TestBuildRevision(t *testing.T) {
	sha := "9128feccf3bddda94a7f8a170305565416815b40"
	assert.Equal(t, Revision{Kind: KindGit, ID: sha}, buildRevision(map[string]string{
		"vcs.system":   "git",
		"vcs.revision": sha,
	}))
	assert.Equal(t, Revision{Kind: KindNone}, buildRevision(map[string]string{
		"vcs.system":   "hg",
		"vcs.revision": "abc",
	}))
	assert.Equal(t, Revision{Kind: KindNone}, buildRevision(map[string]string{
		"vcs.system": "git",
	}))
}

func TestSnapshotFromBuildInfo(t *testing.T) {
	stamp(t, "", "", "", "", "")
	stubBuildInfo(t,
		debug.BuildSetting{Key: "vcs.system", Value: "git"},
		debug.BuildSetting{Key: "vcs.revision", Value: "abc123"},
		debug.BuildSetting{Key: "-ldflags", Value: "-s -w"},
	)

	s := NewSnapshot()
	assert.Equal(t, platformName(runtime.GOOS), s.Platform())
	assert.Equal(t, "Unknown Version", s.OSVersion())
	assert.Equal(t, archName(runtime.GOARCH), s.Arch())
	assert.Equal(t, "-ldflags=-s -w", s.CFlags())
	assert.Equal(t, Revision{Kind: KindGit, ID: "abc123"}, s.Source())
	assert.NotEmpty(t, s.CPU())
}

func TestSnapshotStamped(t *testing.T) {
	stamp(t, "Linux", "Gentoo Base System Release 2.2", "Intel Core i7 [8]", "svn", "17546")
	stubBuildInfo(t, debug.BuildSetting{Key: "vcs.system", Value: "git"})

	assert.True(t, Stamped())
	s := NewSnapshot()
	assert.Equal(t, "Linux", s.Platform())
	assert.Equal(t, "Gentoo Base System Release 2.2", s.OSVersion())
	assert.Equal(t, "Intel Core i7 [8]", s.CPU())
	assert.Equal(t, Revision{Kind: KindSVN, ID: "17546"}, s.Source())
}

func TestNewProvider(t *testing.T) {
	resolver := NewResolver(t.TempDir(), "", "")

	stamp(t, "", "", "", "", "")
	p, err := NewProvider(ModeAuto, resolver)
	require.NoError(t, err)
	assert.IsType(t, &Probed{}, p)

	p, err = NewProvider(ModeSnapshot, resolver)
	require.NoError(t, err)
	assert.IsType(t, &Snapshot{}, p)

	p, err = NewProvider(ModeProbe, resolver)
	require.NoError(t, err)
	assert.IsType(t, &Probed{}, p)

	stamp(t, "Linux", "", "", "", "")
	p, err = NewProvider("", resolver)
	require.NoError(t, err)
	assert.IsType(t, &Snapshot{}, p)

	_, err = NewProvider("sometimes", resolver)
	assert.Error(t, err)
}
