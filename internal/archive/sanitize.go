package archive

import "strings"

// Characters that are invalid in file names on at least one supported
// filesystem. Matches what the storage layer will refuse in an object key
// segment.
const invalidSegmentChars = `<>:"/\|?*`

// SanitizeSegment replaces every character that is illegal in a single
// path segment with '_'. Total over any input, including the empty string.
func SanitizeSegment(segment string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(invalidSegmentChars, r) {
			return '_'
		}
		return r
	}, segment)
}

// SanitizePath normalizes backslashes to forward slashes, drops empty
// segments, sanitizes each remaining segment and rejoins with '/'.
// Already-sanitized input is a fixed point.
func SanitizePath(path string) string {
	normalized := strings.ReplaceAll(path, `\`, "/")

	var segments []string
	for _, seg := range strings.Split(normalized, "/") {
		if seg == "" {
			continue
		}
		segments = append(segments, SanitizeSegment(seg))
	}

	return strings.Join(segments, "/")
}
