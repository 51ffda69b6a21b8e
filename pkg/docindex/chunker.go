package docindex

import (
	"fmt"
	"strings"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

// Source is the catalog metadata a chunked document carries into the index.
type Source struct {
	Key         string
	Department  string
	Sensitivity auth.Sensitivity
	AccessRoles []auth.Role
}

// Chunker splits a document into embedding-sized pieces. Markdown documents
// are first cut at their headings so a chunk never straddles two sections,
// then long sections are windowed with a sentence-aligned overlap.
type Chunker struct {
	ChunkSize int
	Overlap   int
}

func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	return &Chunker{ChunkSize: chunkSize, Overlap: overlap}
}

type section struct {
	title string
	body  string
}

// Split chunks content for one source. Every chunk inherits the source's
// sensitivity and access metadata. Chunk IDs are stable across re-runs:
// "<sourceKey>_s<section>_c<chunk>".
func (c *Chunker) Split(src Source, content string) []Chunk {
	var chunks []Chunk
	for si, sec := range splitSections(content) {
		for ci, piece := range c.window(sec.body) {
			chunks = append(chunks, Chunk{
				ID:          fmt.Sprintf("%s_s%d_c%d", src.Key, si, ci),
				SourceKey:   src.Key,
				Department:  src.Department,
				Section:     sec.title,
				ChunkIndex:  len(chunks),
				Content:     piece,
				Sensitivity: src.Sensitivity,
				AccessRoles: src.AccessRoles,
			})
		}
	}
	return chunks
}

// splitSections cuts markdown at its headings. Content without headings is a
// single untitled section.
func splitSections(content string) []section {
	lines := strings.Split(content, "\n")

	var sections []section
	current := section{}
	var body []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text != "" {
			current.body = text
			sections = append(sections, current)
		}
		body = body[:0]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			flush()
			current = section{title: strings.TrimSpace(strings.TrimLeft(trimmed, "# "))}
			continue
		}
		body = append(body, line)
	}
	flush()

	if len(sections) == 0 {
		text := strings.TrimSpace(content)
		if text != "" {
			sections = append(sections, section{body: text})
		}
	}
	return sections
}

// window slices text into overlapping pieces, preferring to cut at a sentence
// end near the boundary so resumed context starts on a full sentence.
func (c *Chunker) window(text string) []string {
	runes := []rune(text)
	if len(runes) <= c.ChunkSize {
		return []string{text}
	}

	var pieces []string
	start := 0
	for start < len(runes) {
		end := start + c.ChunkSize
		if end >= len(runes) {
			pieces = append(pieces, strings.TrimSpace(string(runes[start:])))
			break
		}
		cut := sentenceBoundary(runes, start, end)
		pieces = append(pieces, strings.TrimSpace(string(runes[start:cut])))

		next := cut - c.Overlap
		if next <= start {
			next = cut
		}
		start = next
	}

	out := pieces[:0]
	for _, p := range pieces {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// sentenceBoundary looks backward from end for a sentence terminator in the
// last fifth of the window, falling back to a whitespace break, then to the
// hard position.
func sentenceBoundary(runes []rune, start, end int) int {
	floor := end - (end-start)/5
	for i := end - 1; i >= floor; i-- {
		switch runes[i] {
		case '.', '!', '?', '\n':
			return i + 1
		}
	}
	for i := end - 1; i >= floor; i-- {
		if runes[i] == ' ' || runes[i] == '\t' {
			return i + 1
		}
	}
	return end
}
