package util

import (
	"strings"
	"unicode"
)

var fileNameReplacer = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// SanitizeString trims whitespace and removes control characters from s.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// FileName turns a user-supplied episode name into a single path element.
// Separators and characters reserved on common filesystems become "_";
// leading and trailing dots and spaces are dropped. The result is empty
// when nothing usable remains.
func FileName(s string) string {
	s = fileNameReplacer.Replace(SanitizeString(s))
	return strings.Trim(s, ". ")
}
