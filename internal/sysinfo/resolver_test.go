package sysinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverPrefersGit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/"+DefaultGitRef, "9128feccf3bddda94a7f8a170305565416815b40\n")
	writeFile(t, root, ".svn/entries", "8\n\ndir\n12345\n")
	writeFile(t, root, ".svn/wc.db", "!svn/ver/17546/trunk)")

	rev := NewResolver(root, "", "").Resolve()
	assert.Equal(t, KindGit, rev.Kind)
	assert.Equal(t, "9128feccf3bddda94a7f8a170305565416815b40", rev.ID)
}

func TestResolverFallsBackToSVN(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/"+DefaultGitRef, "")
	writeFile(t, root, ".svn/entries", "8\n\ndir\n12345\n")

	rev := NewResolver(root, "", "").Resolve()
	assert.Equal(t, KindSVN, rev.Kind)
	assert.Equal(t, "12345", rev.ID)
}

func TestResolverNothingFound(t *testing.T) {
	rev := NewResolver(t.TempDir(), "", "").Resolve()
	assert.Equal(t, KindNone, rev.Kind)
	assert.Empty(t, rev.ID)
	assert.False(t, rev.Found())
}

func TestResolverRepeatable(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(root, "", "")
	assert.Equal(t, KindNone, r.Resolve().Kind)

	writeFile(t, root, ".git/"+DefaultGitRef, "abc\n")
	assert.Equal(t, Revision{Kind: KindGit, ID: "abc"}, r.Resolve())
}

func TestVCSKindString(t *testing.T) {
	assert.Equal(t, "Git", KindGit.String())
	assert.Equal(t, "SVN", KindSVN.String())
	assert.Equal(t, "Exported", KindNone.String())
	assert.Equal(t, "Exported", KindUnknown.String())
}
