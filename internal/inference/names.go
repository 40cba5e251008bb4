package inference

import (
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first letter of a generated name for display.
// Nothing else is changed; in particular the last character is kept.
func Capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// CapitalizeAll applies Capitalize to every name in place and returns names.
func CapitalizeAll(names []string) []string {
	for i, n := range names {
		names[i] = Capitalize(n)
	}
	return names
}
