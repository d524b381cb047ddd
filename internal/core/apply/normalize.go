// Package apply contains the pure decision logic of the batch apply engine:
// input normalization, per-row preconditions, audit summary text and the
// explicit per-row outcome type.
package apply

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// absentTokens are spreadsheet placeholders that mean "no value".
var absentTokens = map[string]bool{
	"nan":  true,
	"none": true,
	"null": true,
}

// NormalizeText trims s and folds it to NFC. Placeholder values such as
// "nan" collapse to the empty string, which callers treat as absent.
func NormalizeText(s string) string {
	t := strings.TrimSpace(s)
	if t == "" || absentTokens[strings.ToLower(t)] {
		return ""
	}
	return norm.NFC.String(t)
}

// NormalizeAction normalizes an action type and upper-cases it.
func NormalizeAction(s string) string {
	return strings.ToUpper(NormalizeText(s))
}
