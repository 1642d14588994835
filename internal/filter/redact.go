package filter

import "regexp"

// Secret-shaped patterns. Matches are replaced with markers, never dropped,
// so the surrounding sentence stays informative. Order matters: key/value
// credentials run before the bare-token pattern so the key name survives.
var (
	credentialPattern = regexp.MustCompile(`(?i)\b(api[_-]?key|access[_-]?key|secret[_-]?key|secret|token|passwd|password|credentials?)\b(\s*[=:]\s*)["']?[^\s"',;]{8,}["']?`)
	bearerPattern     = regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/\-]{16,}=*`)
	keyShapePattern   = regexp.MustCompile(`\b(?:sk|pk|rk|ghp|gho|ghs|xox[a-z])[-_][A-Za-z0-9_\-]{16,}\b`)
	// Slash is deliberately excluded so long filesystem paths in diff
	// headers are not mistaken for tokens.
	longTokenPattern = regexp.MustCompile(`\b[A-Za-z0-9+_\-]{40,}={0,2}\b`)
)

// redact masks secret-shaped substrings in s and returns the number of
// replacements made.
func redact(s string) (string, int) {
	count := 0
	run := func(re *regexp.Regexp, replacement string) {
		s = re.ReplaceAllStringFunc(s, func(string) string {
			count++
			return replacement
		})
	}

	s = credentialPattern.ReplaceAllStringFunc(s, func(m string) string {
		count++
		sub := credentialPattern.FindStringSubmatch(m)
		return sub[1] + sub[2] + "[REDACTED]"
	})
	run(bearerPattern, "Bearer [REDACTED]")
	run(keyShapePattern, "[REDACTED_KEY]")
	run(longTokenPattern, "[REDACTED_TOKEN]")

	return s, count
}
