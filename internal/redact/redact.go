// Package redact scrubs credentials from strings before they are logged.
// Legacy requests carry passwords in form fields and backend calls carry API
// keys in headers, and either may end up inside an error message.
package redact

import "regexp"

// Placeholders substituted for redacted values.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Order matters: JWTs go first so the key rule never sees a partial token.
var rules = []rule{
	{
		pattern:     regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		replacement: RedactedJWTPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)(authorization)(["'\s]*[:=]["'\s]*)[^\s"',}&]+`),
		replacement: "${1}${2}" + RedactedKeyPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)(__ac_password|password|passwd|pwd)(["'\s]*[:=]["'\s]*)[^\s"',}&]+`),
		replacement: "${1}${2}" + RedactedCredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)(api[_-]?key|token|secret)(["'\s]*[:=]["'\s]*)[A-Za-z0-9_\-.~+/]{8,}`),
		replacement: "${1}${2}" + RedactedKeyPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`://[^/@\s]+@`),
		replacement: "://" + RedactedCredentialPlaceholder + "@",
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
