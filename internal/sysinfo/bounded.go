package sysinfo

// BufSize is the capacity, terminator included, of every value handed out
// through CopyTruncate by this package.
const BufSize = 256

// CopyTruncate copies s into dst as a NUL terminated string, truncating it to
// len(dst)-1 bytes. It returns the number of bytes copied, not counting the
// terminator. A nil or empty dst is left alone.
func CopyTruncate(dst []byte, s string) int {
	if len(dst) == 0 {
		return 0
	}

	n := copy(dst[:len(dst)-1], s)
	dst[n] = 0
	return n
}

// truncate limits s to max bytes.
func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
