package sysinfo

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultSVNNode is the node path whose dav cache entry carries the revision
// in wc.db when none is configured.
const DefaultSVNNode = "trunk"

const (
	svnVerPrefix    = "!svn/ver/"
	svnRevisionAttr = "revision="
)

// SVNProbe reads the checked out revision from Subversion working copy
// metadata.
type SVNProbe struct {
	Root     string
	NodePath string
}

// Revision tries wc.db first, then the pre-1.7 entries file.
func (p SVNProbe) Revision() (string, bool) {
	if rev, ok := p.wcdbRevision(); ok {
		return rev, true
	}
	return p.entriesRevision()
}

// wcdbRevision scans the Subversion 1.7+ wc.db for a dav cache value ending in
// "!svn/ver/<rev>/<node>)".
//
// Deprecated: wc.db is an sqlite database and this reads it as opaque bytes,
// relying on an undocumented layout of the NODES.dav_cache column. The column
// is a cache, so the entry may be missing, and newer working copy formats are
// not expected to keep it.
func (p SVNProbe) wcdbRevision() (string, bool) {
	buf, err := os.ReadFile(filepath.Join(p.Root, ".svn", "wc.db"))
	if err != nil {
		buf, err = os.ReadFile(filepath.Join(p.Root, "..", ".svn", "wc.db"))
		if err != nil {
			return "", false
		}
	}

	node := p.NodePath
	if node == "" {
		node = DefaultSVNNode
	}
	return scanDavCache(buf, []byte("/"+node+")"))
}

func scanDavCache(buf, postfix []byte) (string, bool) {
	prefix := []byte(svnVerPrefix)

	for off := 0; off < len(buf); {
		i := bytes.Index(buf[off:], postfix)
		if i < 0 {
			return "", false
		}
		i += off
		off = i + 1

		j := i
		for j > 0 && isDigit(buf[j-1]) {
			j--
		}
		if j == i || j < len(prefix) || !bytes.Equal(buf[j-len(prefix):j], prefix) {
			continue
		}

		if rev, ok := normalizeRevision(string(buf[j:i])); ok {
			return rev, true
		}
	}

	return "", false
}

// entriesRevision reads .svn/entries, either in the XML format used before
// Subversion 1.4 or the line based format used until 1.6.
func (p SVNProbe) entriesRevision() (string, bool) {
	f, err := os.Open(filepath.Join(p.Root, ".svn", "entries"))
	if err != nil {
		return "", false
	}
	defer f.Close()

	r := bufio.NewReader(f)
	first, ok := readLine(r)
	if !ok {
		return "", false
	}

	if first == "" || !isDigit(first[0]) {
		for {
			line, ok := readLine(r)
			if !ok {
				return "", false
			}
			idx := strings.Index(line, svnRevisionAttr)
			if idx < 0 {
				continue
			}
			rest := line[idx+len(svnRevisionAttr):]
			q := strings.IndexByte(rest, '"')
			if q < 0 {
				return "", false
			}
			return normalizeRevision(leadingDigits(rest[q+1:]))
		}
	}

	// entry name, entry kind, then the revision
	var line string
	for i := 0; i < 3; i++ {
		if line, ok = readLine(r); !ok {
			return "", false
		}
	}
	return normalizeRevision(leadingDigits(strings.TrimSpace(line)))
}

func normalizeRevision(digits string) (string, bool) {
	if digits == "" {
		return "", false
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatUint(n, 10), true
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
