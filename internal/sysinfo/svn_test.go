package sysinfo

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSVNProbeEntries(t *testing.T) {
	testCases := []struct {
		name     string
		entries  string
		expected string
		found    bool
	}{
		{
			name:     "xml format",
			entries:  "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<entry\n   revision=\"17546\"\n   .../>\n",
			expected: "17546",
			found:    true,
		},
		{
			name:     "xml format without declaration",
			entries:  "<entry\n   revision=\"17546\"\n   .../>",
			expected: "17546",
			found:    true,
		},
		{
			name:     "xml format with long line before revision",
			entries:  "<?xml version=\"1.0\"?>\n<entry\n   url=\"" + strings.Repeat("x", 70000) + "\"\n   revision=\"17546\"\n/>\n",
			expected: "17546",
			found:    true,
		},
		{
			name:    "xml format without revision",
			entries: "<entry\n   kind=\"dir\"\n/>\n",
		},
		{
			name:    "xml format with unquoted revision",
			entries: "<entry\n   revision=17546\n/>\n",
		},
		{
			name:     "line format",
			entries:  "8\n\ndir\n12345\nhttp://svn.example.org/repo/trunk\n",
			expected: "12345",
			found:    true,
		},
		{
			name:     "line format with named entry",
			entries:  "8\nname.ext\nfile\n12345\n",
			expected: "12345",
			found:    true,
		},
		{
			name:    "line format truncated",
			entries: "8\nname.ext\nfile\n",
		},
		{
			name:    "line format non numeric revision",
			entries: "8\nname.ext\nfile\nabc\n",
		},
		{
			name: "empty file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, ".svn/entries", tc.entries)

			rev, ok := SVNProbe{Root: root}.Revision()
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, rev)
		})
	}
}

func TestSVNProbeWCDB(t *testing.T) {
	testCases := []struct {
		name     string
		db       string
		node     string
		expected string
		found    bool
	}{
		{
			name:     "dav cache entry",
			db:       "SQLite format 3\x00\x10\x00junk(svn:wc:ra_dav:version-url 31 /repo/!svn/ver/17546/trunk)more",
			expected: "17546",
			found:    true,
		},
		{
			name:     "first match wins",
			db:       "x!svn/ver/17/trunk)y!svn/ver/18/trunk)",
			expected: "17",
			found:    true,
		},
		{
			name:     "skips entries with a broken prefix",
			db:       "x!svn/rev/10/trunk)y!svn/ver/11/trunk)",
			expected: "11",
			found:    true,
		},
		{
			name: "non digit before postfix",
			db:   "...!svn/ver/17546x/trunk)...",
		},
		{
			name: "no digits",
			db:   "...!svn/ver//trunk)...",
		},
		{
			name: "other node",
			db:   "...!svn/ver/17546/branches/stable)...",
		},
		{
			name:     "configured node",
			db:       "...!svn/ver/17546/branches/stable)...",
			node:     "branches/stable",
			expected: "17546",
			found:    true,
		},
		{
			name:     "leading zeros",
			db:       "!svn/ver/007/trunk)",
			expected: "7",
			found:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, ".svn/wc.db", tc.db)

			rev, ok := SVNProbe{Root: root, NodePath: tc.node}.Revision()
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, rev)
		})
	}
}

func TestSVNProbeWCDBParentDirectory(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, ".svn/wc.db", "!svn/ver/42/trunk)")
	sub := filepath.Join(repo, "bin")
	writeFile(t, sub, "placeholder", "")

	rev, ok := SVNProbe{Root: sub}.Revision()
	assert.True(t, ok)
	assert.Equal(t, "42", rev)
}

func TestSVNProbeFallsBackToEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".svn/wc.db", "no revision in here")
	writeFile(t, root, ".svn/entries", "10\n\ndir\n99\n")

	rev, ok := SVNProbe{Root: root}.Revision()
	assert.True(t, ok)
	assert.Equal(t, "99", rev)
}

func TestSVNProbeMissing(t *testing.T) {
	rev, ok := SVNProbe{Root: t.TempDir()}.Revision()
	assert.False(t, ok)
	assert.Empty(t, rev)
}
