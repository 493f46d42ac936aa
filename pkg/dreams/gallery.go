package dreams

import (
	"os"
	"strings"
)

// Gallery returns the records whose illustration can be shown: a remote URL,
// or a local file that still exists.
func Gallery(history []Record) []Record {
	var out []Record
	for _, r := range history {
		if HasImage(r) {
			out = append(out, r)
		}
	}
	return out
}

// HasImage reports whether the record's image is a URL or an existing file.
func HasImage(r Record) bool {
	if r.ImagePath == "" {
		return false
	}
	if IsRemote(r.ImagePath) {
		return true
	}
	_, err := os.Stat(r.ImagePath)
	return err == nil
}

// IsRemote reports whether an image reference is an http(s) URL.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
