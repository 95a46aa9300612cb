package config

import (
	"strings"
)

// GenerateConfigContent renders the default configuration with every
// value commented out, suitable as a starting user config file.
func GenerateConfigContent() string {
	return commentOutValues(DefaultsContent())
}

// commentOutValues comments every assignment line while leaving
// comments, blank lines, and [section] headers untouched, so the
// generated file is valid TOML that changes nothing until the user
// uncomments a line. [[array]] headers are commented as well: left
// bare, each one would append an empty artifact entry.
func commentOutValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			result = append(result, line)
		case strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[["):
			result = append(result, "# "+line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
