package ingestion

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// headingPattern matches a top-level markdown heading: a single '#'
// followed by horizontal whitespace.
var headingPattern = regexp.MustCompile(`(?m)^#[ \t]+(.*\S.*)$`)

const untitled = "Untitled"

// ExtractTitle returns the first top-level heading in content, falling
// back to a title derived from filename.
func ExtractTitle(content, filename string) string {
	if match := headingPattern.FindStringSubmatch(content); match != nil {
		if title := strings.TrimSpace(match[1]); title != "" {
			return title
		}
	}
	return TitleFromFilename(filename)
}

// TitleFromFilename turns "my-notes.md" into "My notes".
func TitleFromFilename(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	base = strings.TrimSpace(base)
	if base == "" {
		return untitled
	}

	first, size := utf8.DecodeRuneInString(base)
	return string(unicode.ToUpper(first)) + base[size:]
}
