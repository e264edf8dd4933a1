package rag

import (
	"strings"
	"testing"

	"graphrag-chatbot-be/pkg/discovery"
)

func docWithSnippets(title string, snippets ...string) discovery.SearchResult {
	var ss []discovery.Snippet
	for _, s := range snippets {
		ss = append(ss, discovery.Snippet{Snippet: s, SnippetStatus: "SUCCESS"})
	}
	return discovery.SearchResult{Document: discovery.Document{
		DerivedStructData: discovery.DerivedStructData{Title: title, Link: "https://example.com/" + title, Snippets: ss},
	}}
}

func TestBuildContextEmpty(t *testing.T) {
	if got := BuildContext(nil, nil, 1500); got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
}

func TestBuildContextIncludesSummaryFirst(t *testing.T) {
	results := []discovery.SearchResult{docWithSnippets("문서A", "내용입니다")}
	summary := &discovery.SearchSummary{SummaryText: "요약 내용"}

	got := BuildContext(results, summary, 1500)
	if !strings.HasPrefix(got, "[검색 요약]") {
		t.Errorf("summary should lead the context: %q", got)
	}
	if !strings.Contains(got, "문서A") {
		t.Errorf("document section missing: %q", got)
	}
}

func TestBuildContextSummaryBudget(t *testing.T) {
	// A summary over a third of the budget is dropped entirely.
	summary := &discovery.SearchSummary{SummaryText: strings.Repeat("가", 600)}
	got := BuildContext([]discovery.SearchResult{docWithSnippets("문서A", "내용")}, summary, 1500)
	if strings.Contains(got, "[검색 요약]") {
		t.Errorf("oversized summary should be excluded: %d chars used", len([]rune(got)))
	}
}

func TestBuildContextRespectsBudget(t *testing.T) {
	var results []discovery.SearchResult
	for i := 0; i < 20; i++ {
		results = append(results, docWithSnippets("문서", strings.Repeat("나", 400)))
	}

	got := BuildContext(results, nil, 1500)
	if n := len([]rune(got)); n > 1500+50 { // joining newlines add slack
		t.Errorf("context %d runes exceeds budget", n)
	}
}

func TestBuildContextSkipsFailedSnippets(t *testing.T) {
	results := []discovery.SearchResult{{Document: discovery.Document{
		DerivedStructData: discovery.DerivedStructData{
			Title: "문서",
			Snippets: []discovery.Snippet{
				{Snippet: "실패한 스니펫", SnippetStatus: "NO_SNIPPET_AVAILABLE"},
			},
		},
	}}}

	if got := BuildContext(results, nil, 1500); strings.Contains(got, "실패한 스니펫") {
		t.Errorf("failed snippet leaked into context: %q", got)
	}
}

func TestSynthesizeCitationsDedup(t *testing.T) {
	results := []discovery.SearchResult{
		docWithSnippets("plans", "a"),
		docWithSnippets("plans", "b"), // same link
		docWithSnippets("features", "c"),
		{Document: discovery.Document{DerivedStructData: discovery.DerivedStructData{Title: "링크없음"}}},
	}

	citations := SynthesizeCitations(results)
	if len(citations) != 2 {
		t.Fatalf("expected 2 citations, got %v", citations)
	}
	if citations[0].Title != "plans" || citations[1].Title != "features" {
		t.Errorf("unexpected citation order: %+v", citations)
	}
}

func TestSynthesizeCitationsCap(t *testing.T) {
	var results []discovery.SearchResult
	for i := 0; i < 10; i++ {
		results = append(results, docWithSnippets(strings.Repeat("x", i+1), "s"))
	}
	if citations := SynthesizeCitations(results); len(citations) > 5 {
		t.Errorf("citation cap exceeded: %d", len(citations))
	}
}
