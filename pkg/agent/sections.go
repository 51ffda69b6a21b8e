package agent

import "strings"

// structuredSections is the three-part breakdown every response carries.
type structuredSections struct {
	ShortAnswer string
	Detailed    string
	Summary     string
}

// parseSections splits a response into short answer, detailed analysis and
// summary. Responses already using the section headers are split on them;
// free-form prose gets heuristic extraction.
func parseSections(content, query string) structuredSections {
	if strings.Contains(content, "## Short Answer") || strings.Contains(content, "## Quick Answer") {
		return extractExistingSections(content)
	}

	var paragraphs []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}

	if len(paragraphs) == 0 {
		return structuredSections{
			ShortAnswer: "I couldn't generate a response to your question.",
			Detailed:    content,
			Summary:     "Please try rephrasing your question.",
		}
	}

	return structuredSections{
		ShortAnswer: extractShortAnswer(paragraphs, query),
		Detailed:    content,
		Summary:     extractSummary(paragraphs),
	}
}

func extractExistingSections(content string) structuredSections {
	sections := structuredSections{}

	sections.ShortAnswer = sectionAfter(content, "## Short Answer")
	if sections.ShortAnswer == "" {
		sections.ShortAnswer = sectionAfter(content, "## Quick Answer")
	}

	sections.Detailed = sectionAfter(content, "## Detailed Analysis")
	if sections.Detailed == "" {
		sections.Detailed = sectionAfter(content, "## Details")
	}

	sections.Summary = sectionAfter(content, "## Summary")
	if sections.Summary == "" {
		sections.Summary = sectionAfter(content, "## Key Takeaways")
	}

	if sections.ShortAnswer == "" {
		sections.ShortAnswer = truncate(content, 200)
	}
	if sections.Detailed == "" {
		sections.Detailed = content
	}
	if sections.Summary == "" {
		sections.Summary = "Full response provided above."
	}
	return sections
}

// sectionAfter returns the text between a header and the next "##".
func sectionAfter(content, header string) string {
	idx := strings.Index(content, header)
	if idx < 0 {
		return ""
	}
	rest := content[idx+len(header):]
	if next := strings.Index(rest, "##"); next >= 0 {
		rest = rest[:next]
	}
	return strings.TrimSpace(rest)
}

func extractShortAnswer(paragraphs []string, query string) string {
	queryLower := strings.ToLower(query)

	limit := len(paragraphs)
	if limit > 3 {
		limit = 3
	}
	for _, para := range paragraphs[:limit] {
		paraLower := strings.ToLower(para)

		if containsAny(queryLower, "what is", "what are", "define") {
			if len(para) < 300 && containsAny(paraLower, "is", "are", "refers to", "means") {
				return para
			}
		}
		if containsAny(queryLower, "how many", "how much", "total", "count") {
			if strings.IndexFunc(para, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0 {
				return para
			}
		}
		if containsAny(queryLower, "is there", "does", "can", "will", "should") {
			if containsAny(paraLower, "yes", "no", "true", "false", "available", "possible") {
				return para
			}
		}
	}

	first := paragraphs[0]
	if len(first) > 200 {
		if dot := strings.Index(first, ". "); dot >= 0 {
			return first[:dot+1]
		}
		return truncate(first, 200)
	}
	return first
}

func extractSummary(paragraphs []string) string {
	var keyPoints []string
	for _, para := range paragraphs {
		isListItem := false
		for _, marker := range []string{"•", "-", "*", "1.", "2.", "3."} {
			if strings.HasPrefix(para, marker) {
				isListItem = true
				break
			}
		}
		if isListItem || containsAny(strings.ToLower(para), "key", "important", "main", "primary", "significant") {
			keyPoints = append(keyPoints, para)
		}
	}

	if len(keyPoints) > 0 {
		if len(keyPoints) > 3 {
			keyPoints = keyPoints[:3]
		}
		return strings.Join(keyPoints, "\n")
	}
	if len(paragraphs) > 1 {
		return paragraphs[len(paragraphs)-1]
	}
	return "Key information provided in the detailed response above."
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
