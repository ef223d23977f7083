package rack

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"rackscope/internal/abletonxml"
)

// MaxMacros is the number of macro slots Live exposes on a rack.
const MaxMacros = 16

func (b *builder) macros(main *abletonxml.Node) []MacroControl {
	out, warnings := ReadMacros(main)
	for _, w := range warnings {
		b.recordWarning(w)
	}
	return out
}

// ReadMacros reads the renamed macro knobs of a rack device element. Knobs
// still named "Macro N" are skipped; unreadable knobs are reported in
// warnings and skipped.
func ReadMacros(main *abletonxml.Node) (macros []MacroControl, warnings []string) {
	out := []MacroControl{}
	for i := 0; i < MaxMacros; i++ {
		var (
			macro   MacroControl
			keep    bool
			readErr error
		)
		err := try(func() {
			macro, keep, readErr = readMacro(main, i)
		})
		if err == nil {
			err = readErr
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Error parsing macro control %d: %v", i, err))
			continue
		}
		if keep {
			out = append(out, macro)
		}
	}
	return out, warnings
}

func readMacro(main *abletonxml.Node, i int) (MacroControl, bool, error) {
	nameNode := main.Child(fmt.Sprintf("MacroDisplayNames.%d", i))
	if nameNode == nil {
		return MacroControl{}, false, nil
	}
	defaultName := fmt.Sprintf("Macro %d", i+1)
	name := strings.TrimSpace(nameNode.AttrOr("Value", defaultName))
	if name == "" || name == defaultName {
		return MacroControl{}, false, nil
	}

	value := 0.0
	if raw, ok := main.ValueAt(fmt.Sprintf("MacroControls.%d/Manual", i)); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return MacroControl{}, false, fmt.Errorf("invalid value %q", raw)
		}
		value = parsed
	}
	return MacroControl{Name: name, Value: value, Index: i}, true, nil
}
