package rag

import (
	"fmt"
	"strings"

	"graphrag-chatbot-be/pkg/discovery"
)

const (
	// DefaultContextLength bounds the textual context assembled from
	// search results for a grounded generation call.
	DefaultContextLength = 1500
	maxContextDocuments  = 8
	maxSnippetsPerDoc    = 2
)

// cleanSnippet strips the provider's highlight markup.
func cleanSnippet(s string) string {
	s = strings.ReplaceAll(s, "<b>", "")
	s = strings.ReplaceAll(s, "</b>", "")
	return strings.TrimSpace(s)
}

// documentSnippets returns the usable snippets of a search result.
func documentSnippets(result discovery.SearchResult) []string {
	var snippets []string
	for _, sn := range result.Document.DerivedStructData.Snippets {
		if sn.SnippetStatus != "" && sn.SnippetStatus != "SUCCESS" {
			continue
		}
		if text := cleanSnippet(sn.Snippet); text != "" {
			snippets = append(snippets, text)
		}
	}
	return snippets
}

// BuildContext turns search results (and an optional provider summary)
// into a bounded context block. The summary gets at most a third of the
// budget; documents fill the rest, up to maxContextDocuments with up to
// maxSnippetsPerDoc snippets each, stopping when the budget runs out.
func BuildContext(results []discovery.SearchResult, summary *discovery.SearchSummary, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultContextLength
	}
	if len(results) == 0 && summary == nil {
		return ""
	}

	var parts []string
	currentLength := 0

	if summary != nil && summary.SummaryText != "" {
		summaryContext := fmt.Sprintf("[검색 요약]\n%s\n\n", summary.SummaryText)
		if len([]rune(summaryContext)) <= maxLength/3 {
			parts = append(parts, summaryContext)
			currentLength += len([]rune(summaryContext))
		}
	}

	limit := len(results)
	if limit > maxContextDocuments {
		limit = maxContextDocuments
	}

	for i := 0; i < limit; i++ {
		title := results[i].Document.DerivedStructData.Title
		if title == "" {
			title = fmt.Sprintf("문서%d", i+1)
		}
		snippets := documentSnippets(results[i])
		if len(snippets) == 0 {
			continue
		}

		docContext := fmt.Sprintf("[문서%d: %s]\n", i+1, title)
		for j, snippet := range snippets {
			if j >= maxSnippetsPerDoc {
				break
			}
			if currentLength+len([]rune(docContext))+len([]rune(snippet)) > maxLength {
				break
			}
			docContext += "- " + snippet + "\n"
		}

		if currentLength+len([]rune(docContext)) <= maxLength {
			parts = append(parts, docContext)
			currentLength += len([]rune(docContext))
		} else {
			break
		}
	}

	return strings.Join(parts, "\n")
}
