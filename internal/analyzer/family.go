package analyzer

import (
	"path/filepath"
	"strings"
)

// Family selects which schema a container is read as.
type Family string

const (
	FamilyRack    Family = "rack"
	FamilyPreset  Family = "preset"
	FamilySession Family = "session"
)

var extensionFamilies = map[string]Family{
	".adg": FamilyRack,
	".adv": FamilyPreset,
	".als": FamilySession,
}

// FamilyForPath derives the schema family from a file extension. Matching is
// case-insensitive.
func FamilyForPath(path string) (Family, bool) {
	family, ok := extensionFamilies[strings.ToLower(filepath.Ext(path))]
	return family, ok
}

// ParseFamily validates a family name given on the command line.
func ParseFamily(name string) (Family, bool) {
	switch Family(strings.ToLower(strings.TrimSpace(name))) {
	case FamilyRack:
		return FamilyRack, true
	case FamilyPreset:
		return FamilyPreset, true
	case FamilySession:
		return FamilySession, true
	default:
		return "", false
	}
}
