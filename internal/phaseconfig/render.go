package phaseconfig

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// Render substitutes {{name}} tokens with vars. Tokens without a value are left as
// written so a missing variable is visible in the delivered message.
func Render(text string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := strings.TrimSpace(token[2 : len(token)-2])
		if val, ok := vars[name]; ok {
			return val
		}
		return token
	})
}

// Placeholders lists the distinct placeholder names used in text, in order of
// first appearance.
func Placeholders(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}
