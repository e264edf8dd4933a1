package rag

import (
	"fmt"

	"graphrag-chatbot-be/pkg/discovery"
)

// maxSynthesizedCitations caps citations built from raw search results.
const maxSynthesizedCitations = 5

// SynthesizeCitations builds citations from the top search results when
// the generation call returned none. Results without a resolvable URI are
// skipped; duplicates (same URI) are collapsed.
func SynthesizeCitations(results []discovery.SearchResult) []discovery.Citation {
	var citations []discovery.Citation
	seen := make(map[string]struct{})

	for i, result := range results {
		if len(citations) >= maxSynthesizedCitations {
			break
		}
		doc := result.Document

		title := doc.DerivedStructData.Title
		if title == "" {
			title = fmt.Sprintf("문서 %d", i+1)
		}
		uri := doc.DerivedStructData.Link
		if uri == "" {
			uri = doc.URI
		}
		if uri == "" {
			continue
		}
		if _, dup := seen[uri]; dup {
			continue
		}
		seen[uri] = struct{}{}

		citations = append(citations, discovery.Citation{
			Title:       title,
			URI:         uri,
			DisplayName: title,
		})
	}
	return citations
}
