package material

import (
	"regexp"
	"strings"
)

var entryPointRegex = regexp.MustCompile(`@(vertex|fragment|compute)\s+fn\s+(\w+)\s*\(`)

// entryPoints lists the entry point function names declared in source, keyed by stage
// attribute ("vertex", "fragment", "compute"). Commented-out declarations are ignored.
func entryPoints(source string) map[string][]string {
	out := map[string][]string{}
	for _, m := range entryPointRegex.FindAllStringSubmatch(stripComments(source), -1) {
		out[m[1]] = append(out[m[1]], m[2])
	}
	return out
}

// stripComments removes block comments, which nest in WGSL, and then line comments.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}

	lines := strings.Split(sb.String(), "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "//"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}
