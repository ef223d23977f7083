package rack

import (
	"golang.org/x/text/cases"
)

// Edition is the cheapest Live edition that ships every device in a rack.
type Edition string

const (
	EditionIntro    Edition = "intro"
	EditionStandard Edition = "standard"
	EditionSuite    Edition = "suite"
)

var suiteOnlyDevices = map[string]struct{}{
	"operator":        {},
	"collision":       {},
	"simpler":         {},
	"sampler":         {},
	"analogsynthesis": {},
	"operator2":       {},
	"tension":         {},
	"collision2":      {},
	"simpler2":        {},
	"sampler2":        {},
}

var standardDevices = map[string]struct{}{
	"eq8":         {},
	"compressor2": {},
	"autofilter":  {},
	"reverb":      {},
	"delay":       {},
	"chorus":      {},
	"phaser":      {},
	"autopan":     {},
	"gate":        {},
	"overdrive":   {},
	"saturator":   {},
}

// DetectEdition reports EditionSuite when any device token is Suite-only,
// EditionStandard when any is a Standard device, and EditionIntro otherwise.
// Tokens are compared case-insensitively.
func DetectEdition(desc *Descriptor) Edition {
	if desc == nil {
		return EditionIntro
	}
	fold := cases.Fold()
	edition := EditionIntro
	Walk(desc.Chains, func(device DeviceNode, _ int) {
		if edition == EditionSuite {
			return
		}
		token := fold.String(device.Type)
		if _, ok := suiteOnlyDevices[token]; ok {
			edition = EditionSuite
			return
		}
		if _, ok := standardDevices[token]; ok {
			edition = EditionStandard
		}
	})
	return edition
}
