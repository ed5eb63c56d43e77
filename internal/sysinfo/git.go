package sysinfo

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultGitRef is the ref file read below .git when none is configured.
	DefaultGitRef = "refs/remotes/origin/master"

	gitRevisionMax = 49

	// gitLineMax bounds how much of a ref file is read.
	gitLineMax = 4096
)

// GitProbe reads the commit a Git ref file points at.
type GitProbe struct {
	Root    string
	RefPath string
}

func (p GitProbe) path() string {
	ref := p.RefPath
	if ref == "" {
		ref = DefaultGitRef
	}
	return filepath.Join(p.Root, ".git", filepath.FromSlash(ref))
}

// Revision returns the first token of the ref file's first line, at most 49
// characters long. Only a bounded prefix of the file is read, so an over-long
// first line is cut rather than rejected. A missing, unreadable or blank ref
// file is not found.
func (p GitProbe) Revision() (string, bool) {
	f, err := os.Open(p.path())
	if err != nil {
		return "", false
	}
	defer f.Close()

	line, ok := readLine(bufio.NewReader(io.LimitReader(f, gitLineMax)))
	if !ok {
		return "", false
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}

	return truncate(fields[0], gitRevisionMax), true
}

// readLine returns the next line of r without its line ending, however long.
// A final line without a newline counts; ok is false at end of input.
func readLine(r *bufio.Reader) (string, bool) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}
