package lazy

import (
	"fmt"
	"regexp"
)

// UnknownLabel names a module whose import path could not be recovered.
const UnknownLabel = "<unknown>"

var importLiteral = regexp.MustCompile(`import\((?:'|")([^'"]+)(?:'|")\)`)

// LabelFromSource extracts the first import("...") literal from a loader's
// source text. It returns UnknownLabel when there is none.
func LabelFromSource(src string) string {
	m := importLiteral.FindStringSubmatch(src)
	if m == nil {
		return UnknownLabel
	}
	return m[1]
}

// labelFor picks the explicit label if given, then whatever the loader's
// source text reveals.
func labelFor(explicit string, loader Loader) string {
	if explicit != "" {
		return explicit
	}
	if s, ok := loader.(fmt.Stringer); ok {
		return LabelFromSource(s.String())
	}
	return UnknownLabel
}
