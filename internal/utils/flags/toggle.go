// Package flags binds yes/no style toggle flags to Cobra commands.
package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue  = "true"
	toggleFalseCanonicalValue = "false"
	toggleTypeName            = "bool"
	toggleParseErrorTemplate  = "invalid toggle value %q"
	toggleUsageTemplate       = "`%s` %s"
	toggleTruePlaceholder     = "<YES|no>"
	toggleFalsePlaceholder    = "<yes|NO>"
)

var toggleLiterals = map[string]bool{
	toggleTrueCanonicalValue:  true,
	"yes":                     true,
	"y":                       true,
	"on":                      true,
	"1":                       true,
	toggleFalseCanonicalValue: false,
	"no":                      false,
	"n":                       false,
	"off":                     false,
	"0":                       false,
}

// AddToggleFlag registers a boolean flag that also accepts yes/no, on/off, and 1/0 values.
// A bare "--name" sets the target to true.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	value := &toggleValue{target: target}
	value.assign(defaultValue)
	flag := flagSet.VarPF(value, name, shorthand, formatToggleUsage(usage, defaultValue))
	flag.NoOptDefVal = toggleTrueCanonicalValue
}

// ParseToggle interprets a toggle literal.
func ParseToggle(rawValue string) (bool, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		return true, nil
	}
	parsedValue, known := toggleLiterals[normalizedValue]
	if !known {
		return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}
	return parsedValue, nil
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleFalsePlaceholder
	if defaultValue {
		placeholder = toggleTruePlaceholder
	}
	return strings.TrimSpace(fmt.Sprintf(toggleUsageTemplate, placeholder, strings.TrimSpace(description)))
}

type toggleValue struct {
	current bool
	target  *bool
}

func (value *toggleValue) assign(parsedValue bool) {
	value.current = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
}

func (value *toggleValue) Set(rawValue string) error {
	parsedValue, parseError := ParseToggle(rawValue)
	if parseError != nil {
		return parseError
	}
	value.assign(parsedValue)
	return nil
}

func (value *toggleValue) String() string {
	if value != nil && value.current {
		return toggleTrueCanonicalValue
	}
	return toggleFalseCanonicalValue
}

func (value *toggleValue) Type() string {
	return toggleTypeName
}
