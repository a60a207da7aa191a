package render

import (
	"strings"
)

const (
	nestedHeadingIncrement = 2
	maximumHeadingLevel    = 6
	codeFenceBacktick      = "```"
	codeFenceTilde         = "~~~"
)

// nestMarkdown prepares one document for embedding below a "## Title" heading: a
// leading top-level heading is dropped and the remaining headings move down two levels.
// Fenced code blocks are left untouched.
func nestMarkdown(content string) string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	lines = stripLeadingHeading(lines)
	return strings.Trim(strings.Join(bumpHeadings(lines, nestedHeadingIncrement), "\n"), "\n")
}

func stripLeadingHeading(lines []string) []string {
	for index, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if headingLevel(trimmed) == 1 {
			return lines[index+1:]
		}
		return lines
	}
	return lines
}

func bumpHeadings(lines []string, increment int) []string {
	if increment <= 0 {
		return lines
	}
	adjusted := make([]string, len(lines))
	insideFence := false
	for index, line := range lines {
		adjusted[index] = line
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, codeFenceBacktick) || strings.HasPrefix(trimmed, codeFenceTilde) {
			insideFence = !insideFence
			continue
		}
		if insideFence {
			continue
		}
		level := headingLevel(trimmed)
		if level == 0 {
			continue
		}
		target := level + increment
		if target > maximumHeadingLevel {
			target = maximumHeadingLevel
		}
		adjusted[index] = strings.Repeat("#", target) + trimmed[level:]
	}
	return adjusted
}

// headingLevel returns the ATX heading level of line, or 0 when it is not a heading.
func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > maximumHeadingLevel {
		return 0
	}
	if level < len(line) && line[level] != ' ' && line[level] != '\t' {
		return 0
	}
	return level
}
