// Package i18n is the translation boundary for user-facing messages.
// All text shown through the alert channel goes through T so that
// additional language catalogs can be registered without touching callers.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	entries := map[string]string{
		"cannot parse data":   "Cannot parse data",
		"no geo column found": "No geographic column found in data",
		"import row errors":   "%d rows could not be imported (first error: %s)",
	}
	for key, msg := range entries {
		if err := message.SetString(language.English, key, msg); err != nil {
			panic(err)
		}
	}
	printer = message.NewPrinter(language.English)
}

// T renders the message registered under key with the given parameters.
// Unregistered keys render as-is, so new messages degrade to English text.
func T(key string, args ...interface{}) string {
	return printer.Sprintf(key, args...)
}
