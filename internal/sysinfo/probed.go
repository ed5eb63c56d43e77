package sysinfo

import "runtime"

// Probed is a Provider that looks facts up on the running host the first
// time each one is asked for and keeps the answer for the life of the
// process. The source revision is resolved once, on first query, from the
// working copy around the process.
type Probed struct {
	platform  *Lazy[string]
	osVersion *Lazy[string]
	cpu       *Lazy[string]
	cflags    *Lazy[string]
	source    *Reloadable[Revision]
}

func NewProbed(source *Resolver) *Probed {
	return newProbed(source, hostPlatform, hostOSVersion, hostCPU)
}

func newProbed(source *Resolver, platform, osVersion, cpu func() string) *Probed {
	return &Probed{
		platform:  NewLazy(platform),
		osVersion: NewLazy(osVersion),
		cpu:       NewLazy(cpu),
		cflags: NewLazy(func() string {
			return buildFlags(buildSettings())
		}),
		source: NewReloadable(source.Resolve),
	}
}

func (p *Probed) Platform() string  { return p.platform.Get() }
func (p *Probed) OSVersion() string { return p.osVersion.Get() }
func (p *Probed) CPU() string       { return p.cpu.Get() }
func (p *Probed) Arch() string      { return archName(runtime.GOARCH) }
func (p *Probed) Compiler() string  { return compilerName() }
func (p *Probed) CFlags() string    { return p.cflags.Get() }

// Source resolves the revision on first call only; later changes to the
// working copy are not picked up.
func (p *Probed) Source() Revision { return p.source.Get() }

// SourceResolved reports whether Source has run its resolution yet.
func (p *Probed) SourceResolved() bool { return p.source.Loaded() }
