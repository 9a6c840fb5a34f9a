// Package redact removes sensitive information from strings before they are
// logged. Errors in this application can carry database URLs, provider API
// keys, upstream request URLs and file paths; none of these may reach a log
// line or a client response verbatim.
package redact

import (
	"regexp"
)

// Redaction placeholders.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedURLPlaceholder        = "[REDACTED_URL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
)

// rule is one pattern and the placeholder that replaces its matches.
// Rules run in order, so broader patterns come after the specific ones.
type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

var rules = []rule{
	// user:password@ in database and broker URLs
	{regexp.MustCompile(`(?i)\b(postgres|postgresql|mysql|mongodb|redis|amqp)://[^@\s]+@`), RedactedCredentialPlaceholder},

	// Provider keys: Gemini "AIza..." and OpenAI "sk-..."
	{regexp.MustCompile(`\bAIza[0-9A-Za-z_\-]{20,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`\bsk-[0-9A-Za-z_\-]{16,}`), RedactedKeyPlaceholder},

	// key=..., api_key: ..., Authorization: Bearer ...
	{regexp.MustCompile(`(?i)\b(bearer)\s+[A-Za-z0-9_\-.~+/=]{8,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)\b(api[_-]?key|token|secret|key|auth)['"]?\s*[:=]\s*['"]?[A-Za-z0-9_\-.~+/]{8,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)\b(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},

	// Full URLs, which may carry keys as query parameters
	{regexp.MustCompile(`(?i)\bhttps?://[^\s"']+`), RedactedURLPlaceholder},

	// SQL statements; keywords are matched in upper case only
	{regexp.MustCompile(`\b(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)\b[\s\w,*()$.]+\b(FROM|INTO|SET|TABLE)\b[^;\n]*`), RedactedSQLPlaceholder},

	// Stack traces
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), "[STACK_TRACE_REDACTED]"},

	// File paths, including bolt database files
	{regexp.MustCompile(`(/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\\s:]+(\\[^\\\s:]+)+`), RedactedPathPlaceholder},

	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
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
