package sysinfo

import (
	"log/slog"
)

// Resolver finds the revision of the working copy at a root directory.
type Resolver struct {
	Git    GitProbe
	SVN    SVNProbe
	Logger *slog.Logger
}

// NewResolver returns a Resolver probing root. Empty gitRef and svnNode
// select DefaultGitRef and DefaultSVNNode.
func NewResolver(root, gitRef, svnNode string) *Resolver {
	return &Resolver{
		Git: GitProbe{Root: root, RefPath: gitRef},
		SVN: SVNProbe{Root: root, NodePath: svnNode},
	}
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Resolve probes Git, then SVN. The first probe that finds a revision wins;
// when neither does the result is KindNone with an empty ID.
func (r *Resolver) Resolve() Revision {
	if rev, ok := r.Git.Revision(); ok {
		r.logger().Debug("resolved revision", "vcs", KindGit, "revision", rev, "root", r.Git.Root)
		return Revision{Kind: KindGit, ID: truncate(rev, BufSize-1)}
	}

	if rev, ok := r.SVN.Revision(); ok {
		r.logger().Debug("resolved revision", "vcs", KindSVN, "revision", rev, "root", r.SVN.Root)
		return Revision{Kind: KindSVN, ID: truncate(rev, BufSize-1)}
	}

	r.logger().Debug("no vcs metadata found", "root", r.Git.Root)
	return Revision{Kind: KindNone}
}
