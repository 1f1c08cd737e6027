package interaction

import (
	"fmt"
	"strings"

	"github.com/poiesic/vocalis/core"
)

const (
	knowledgeHeader    = "Found relevant information:\n\n"
	knowledgeSeparator = "\n\n---\n\n"

	// minContentTokens is the smallest truncated excerpt worth including.
	minContentTokens = 16
)

// Source identifies a document used to answer a question.
type Source struct {
	ID         core.ID `json:"id"`
	Title      string  `json:"title"`
	SourcePath string  `json:"source_path"`
}

// noKnowledge is the context handed to the answer generator when retrieval
// finds nothing, so the model falls back to general knowledge.
func noKnowledge(question string) string {
	return fmt.Sprintf("No relevant information found in the knowledge base for the query: '%s'", question)
}

// buildKnowledge formats retrieved documents for the answer generator,
// most relevant first, until budget tokens are used. The document that
// crosses the budget is truncated; later ones are dropped. A budget of
// zero means unlimited.
func buildKnowledge(docs []*core.Document, counter TokenCounter, budget int) (string, []Source) {
	blocks := make([]string, 0, len(docs))
	sources := make([]Source, 0, len(docs))
	remaining := budget - counter.Count(knowledgeHeader)

	for _, doc := range docs {
		prefix := "Title: " + doc.Title + "\nContent: "
		content := strings.TrimSpace(doc.Content)

		if budget > 0 {
			cost := counter.Count(prefix)
			if len(blocks) > 0 {
				cost += counter.Count(knowledgeSeparator)
			}
			available := remaining - cost
			if available < minContentTokens {
				break
			}
			if counter.Count(content) > available {
				content = counter.Truncate(content, available)
			}
			remaining = available - counter.Count(content)
		}

		blocks = append(blocks, prefix+content)
		sources = append(sources, Source{ID: doc.Id, Title: doc.Title, SourcePath: doc.SourcePath})
	}

	if len(blocks) == 0 {
		return "", nil
	}
	return knowledgeHeader + strings.Join(blocks, knowledgeSeparator), sources
}
