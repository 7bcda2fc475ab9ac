package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxFilenameBytes = 200

var (
	reservedChars = regexp.MustCompile(`[<>:"/\\|?*#]`)
	spaceRuns     = regexp.MustCompile(`\s+`)
)

// SanitizeFilename turns a book title into a file name that is safe on common
// filesystems and inside Obsidian vaults.
func SanitizeFilename(name string) string {
	name = reservedChars.ReplaceAllString(name, "")
	name = strings.NewReplacer("[", "(", "]", ")").Replace(name)
	name = strings.TrimSpace(spaceRuns.ReplaceAllString(name, " "))

	if len(name) > maxFilenameBytes {
		cut := maxFilenameBytes
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimSpace(name[:cut])
	}

	if name == "" {
		return "Untitled"
	}
	return name
}
