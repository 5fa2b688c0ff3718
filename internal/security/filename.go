// Package security holds input hygiene for names that end up in stored
// runs and download headers.
package security

import "strings"

const maxNameLen = 96

// SanitizeFilename reduces an untrusted source name to ASCII letters,
// digits, dot, underscore and dash. Other runs of characters become a
// single underscore. Directory components are dropped, so "../x.pdb"
// yields "x.pdb". An empty result is "unknown".
func SanitizeFilename(s string) string {
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	var b strings.Builder
	pendingUnderscore := false
	for _, r := range s {
		if b.Len() >= maxNameLen {
			break
		}
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '.' || r == '_' || r == '-'
		if !ok {
			pendingUnderscore = true
			continue
		}
		if pendingUnderscore && b.Len() > 0 && b.Len() < maxNameLen-1 {
			b.WriteByte('_')
		}
		pendingUnderscore = false
		b.WriteRune(r)
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
