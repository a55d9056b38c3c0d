package msbuild

import "strings"

// Evaluation data often originates on a different OS than the one running
// this tool: reference paths and defining-project directories may use
// Windows drive letters and backslashes while we run on Linux, or vice
// versa. path/filepath is compiled for the host OS only, so rooting is done
// with a small lexical segment walk that follows the separator style of the
// base directory.

func isSeparator(r byte) bool {
	return r == '/' || r == '\\'
}

func isWindowsStyle(p string) bool {
	if len(p) >= 2 && p[1] == ':' {
		return true
	}
	return strings.Contains(p, `\`)
}

// IsRooted reports whether p is already an absolute path in either style.
func IsRooted(p string) bool {
	if p == "" {
		return false
	}
	if isSeparator(p[0]) {
		return true
	}
	return len(p) >= 3 && p[1] == ':' && isSeparator(p[2])
}

// TrimTrailingSeparators removes trailing slashes and backslashes, as MSBuild
// directory properties conventionally end with one.
func TrimTrailingSeparators(p string) string {
	for len(p) > 1 && isSeparator(p[len(p)-1]) {
		p = p[:len(p)-1]
	}
	return p
}

func splitSegments(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '\\'
	})
}

// MakeRooted roots rel against the base directory and collapses "." and ".."
// segments. An already-rooted rel is returned normalized in its own
// separator style with base ignored; a relative rel takes on the base's
// style (backslashes for Windows-looking paths, forward slashes otherwise).
func MakeRooted(base, rel string) string {
	windows := isWindowsStyle(rel)
	src := rel
	if !IsRooted(rel) {
		windows = windows || isWindowsStyle(base)
		src = TrimTrailingSeparators(base) + "/" + rel
	}
	sep := "/"
	if windows {
		sep = `\`
	}

	unixRooted := !windows && len(src) > 0 && isSeparator(src[0])

	segments := splitSegments(src)
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case ".":
			// skip
		case "..":
			// Never pop past the root (drive letter or first kept
			// segment of a relative base).
			if n := len(out); n > 0 && out[n-1] != ".." && !strings.HasSuffix(out[n-1], ":") {
				out = out[:n-1]
			}
		default:
			out = append(out, seg)
		}
	}

	joined := strings.Join(out, sep)
	if unixRooted {
		joined = "/" + joined
	}
	return joined
}

// DirOf returns the directory portion of a path in either separator style.
func DirOf(p string) string {
	p = TrimTrailingSeparators(p)
	for i := len(p) - 1; i >= 0; i-- {
		if isSeparator(p[i]) {
			if i == 0 {
				return p[:1]
			}
			return p[:i]
		}
	}
	return "."
}
