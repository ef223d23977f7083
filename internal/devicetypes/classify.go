package devicetypes

import "sort"

// CategoryOther is reported for tokens and names missing from the tables.
const CategoryOther = "other"

// Classification is the classifier output for a single token.
type Classification struct {
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
}

// Classify resolves a device token. Unknown tokens pass through unchanged.
func Classify(token string) Classification {
	name := DisplayName(token)
	return Classification{DisplayName: name, Category: Category(name)}
}

// DisplayName returns the browser name for token, or token itself when unmapped.
func DisplayName(token string) string {
	if name, ok := displayNames[token]; ok {
		return name
	}
	return token
}

// Category returns the category for a display name, or CategoryOther.
func Category(displayName string) string {
	if category, ok := categories[displayName]; ok {
		return category
	}
	return CategoryOther
}

// Known reports whether token has a table entry.
func Known(token string) bool {
	_, ok := displayNames[token]
	return ok
}

// IsRackKind reports whether token is one of the three chain-bearing rack kinds.
func IsRackKind(token string) bool {
	switch token {
	case AudioEffectRack, InstrumentRack, MidiEffectRack:
		return true
	default:
		return false
	}
}

// IsInstrument reports whether token names a sound-generating device.
func IsInstrument(token string) bool {
	if _, ok := instrumentTokens[token]; ok {
		return true
	}
	_, ok := instrumentCategories[Category(DisplayName(token))]
	return ok
}

// BranchTag returns the element name of the chain presets stored under a rack
// of the given kind, or "" for non-rack tokens.
func BranchTag(rackToken string) string {
	switch rackToken {
	case AudioEffectRack:
		return "AudioEffectBranchPreset"
	case InstrumentRack:
		return "InstrumentBranchPreset"
	case MidiEffectRack:
		return "MidiEffectBranchPreset"
	default:
		return ""
	}
}

// Entry is one row of the token table.
type Entry struct {
	Token string
	Classification
}

// Entries returns every known token sorted by category, display name and token.
func Entries() []Entry {
	out := make([]Entry, 0, len(displayNames))
	for token := range displayNames {
		out = append(out, Entry{Token: token, Classification: Classify(token)})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.DisplayName != b.DisplayName {
			return a.DisplayName < b.DisplayName
		}
		return a.Token < b.Token
	})
	return out
}

// Categories returns the distinct category names in sorted order.
func Categories() []string {
	seen := make(map[string]struct{}, 16)
	for _, category := range categories {
		seen[category] = struct{}{}
	}
	seen[CategoryOther] = struct{}{}
	out := make([]string, 0, len(seen))
	for category := range seen {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}
