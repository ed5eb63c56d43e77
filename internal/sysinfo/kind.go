package sysinfo

// VCSKind identifies the version control system a revision came from.
type VCSKind int

const (
	// KindUnknown is the state before any resolution ran.
	KindUnknown VCSKind = iota
	KindGit
	KindSVN
	// KindNone means resolution ran and found no metadata.
	KindNone
)

// String renders the kind the way startup banners show it. Both KindUnknown
// and KindNone render as "Exported".
func (k VCSKind) String() string {
	switch k {
	case KindGit:
		return "Git"
	case KindSVN:
		return "SVN"
	default:
		return "Exported"
	}
}

// Revision is the outcome of a resolution: the system it came from and the
// revision identifier, which is empty unless Kind is KindGit or KindSVN.
type Revision struct {
	Kind VCSKind
	ID   string
}

// Found reports whether the revision came from actual VCS metadata.
func (r Revision) Found() bool {
	return r.Kind == KindGit || r.Kind == KindSVN
}
