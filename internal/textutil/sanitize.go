package textutil

import (
	"strings"
	"unicode"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// maxStemRunes keeps exported names well under common filesystem limits.
const maxStemRunes = 96

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters and control characters are removed. Runs of whitespace collapse
// to one space and the result is trimmed.
func SanitizeFileName(name string) string {
	name = fileNameReplacer.Replace(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")
	return strings.Trim(name, " .")
}

// ExportName builds a file name for an exported analysis: the sanitized item
// name, the first eight characters of its hash, and ext. Empty names fall back
// to "untitled".
func ExportName(name, sha256, ext string) string {
	stem := SanitizeFileName(name)
	if runes := []rune(stem); len(runes) > maxStemRunes {
		stem = strings.TrimSpace(string(runes[:maxStemRunes]))
	}
	if stem == "" {
		stem = "untitled"
	}
	if len(sha256) > 8 {
		sha256 = sha256[:8]
	}
	if sha256 != "" {
		stem += "-" + strings.ToLower(sha256)
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}
