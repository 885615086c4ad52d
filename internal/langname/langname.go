// Package langname turns the two-letter language codes reported on posts
// into English display names.
package langname

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var namer = display.English.Languages()

// Lookup returns the English name of an ISO 639-1 code. Codes that are not
// two letters, or that the CLDR tables do not know ("und", "zxx", the X API's
// "qme"/"qht" pseudo-codes), report false.
func Lookup(code string) (string, bool) {
	if len(code) != 2 {
		return "", false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	name := namer.Name(tag)
	if name == "" {
		return "", false
	}
	return name, true
}

// Format renders a code as "English (en)", or "Unknown (xx)" when Lookup
// fails.
func Format(code string) string {
	if name, ok := Lookup(code); ok {
		return fmt.Sprintf("%s (%s)", name, code)
	}
	return fmt.Sprintf("Unknown (%s)", code)
}
