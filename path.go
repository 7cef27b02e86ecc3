package smb3

import "strings"

// NormalizePath converts a caller-supplied path (forward or backward
// slashes, possibly with a leading root) into the backslash-joined,
// root-and-prefix-stripped form SMB2 Create/SetInfo requests expect.
// Parent-reference components ("..") are preserved as literal path
// components rather than resolved, since resolution against the server's
// namespace is the server's job, not the client's.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "/", "\\")
	parts := strings.Split(path, "\\")

	var kept []string
	for _, p := range parts {
		if p == "" || p == "." {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "\\")
}
