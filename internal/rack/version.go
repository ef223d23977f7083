package rack

import (
	"regexp"
	"strconv"
	"strings"

	"rackscope/internal/abletonxml"
)

var (
	creatorVersionRe = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)
	leadingDigitsRe  = regexp.MustCompile(`^\s*(\d+)`)
	versionAttrs     = [4]string{"MajorVersion", "MinorVersion", "BuildNumber", "Revision"}
)

// ExtractVersion reads the Live version that wrote the document.
//
// Sources, in order: the root Ableton element's attributes, a nested Ableton
// element (attributes, then child Value elements), a root Version attribute,
// and finally a version number inside a Creator string naming Ableton Live.
func ExtractVersion(root *abletonxml.Node) VersionInfo {
	var info VersionInfo
	if root == nil {
		return info
	}

	fields := [4]**int{&info.Major, &info.Minor, &info.Build, &info.Revision}
	if root.Name == "Ableton" {
		for i, attr := range versionAttrs {
			if v, ok := root.Attr(attr); ok {
				*fields[i] = leadingInt(v)
			}
		}
	}

	if info.Major == nil {
		if nested := root.Find("Ableton"); nested != nil {
			for i, attr := range versionAttrs {
				if *fields[i] != nil {
					continue
				}
				if v, ok := nested.Attr(attr); ok {
					*fields[i] = leadingInt(v)
				} else if v, ok := nested.ValueAt(attr); ok {
					*fields[i] = leadingInt(v)
				}
			}
		}
	}

	info.String = dotted(info)
	if info.String != "" {
		return info
	}

	if v, ok := root.Attr("Version"); ok && strings.TrimSpace(v) != "" {
		info.String = strings.TrimSpace(v)
	}
	if creator, ok := root.Attr("Creator"); ok && strings.Contains(creator, "Ableton Live") {
		if m := creatorVersionRe.FindStringSubmatch(creator); m != nil {
			info.String = m[1]
		}
	}
	return info
}

// dotted joins the version fields in order, stopping at the first gap.
func dotted(info VersionInfo) string {
	var parts []string
	for _, field := range []*int{info.Major, info.Minor, info.Build, info.Revision} {
		if field == nil {
			break
		}
		parts = append(parts, strconv.Itoa(*field))
	}
	return strings.Join(parts, ".")
}

// leadingInt parses the leading digits of s ("11.0_433" yields 11). Values
// without leading digits count as present but zero.
func leadingInt(s string) *int {
	n := 0
	if m := leadingDigitsRe.FindStringSubmatch(s); m != nil {
		if parsed, err := strconv.Atoi(m[1]); err == nil {
			n = parsed
		}
	}
	return &n
}
