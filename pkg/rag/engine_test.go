package rag

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/pkg/cache"
	"graphrag-chatbot-be/pkg/discovery"
	"graphrag-chatbot-be/pkg/resilience"
)

type fakeProvider struct {
	searchResp  *discovery.SearchResponse
	searchErr   error
	answerResp  *discovery.AnswerResponse
	answerErr   error
	searchCalls int
	answerCalls int
	lastQuery   string
}

func (f *fakeProvider) Search(_ context.Context, query string) (*discovery.SearchResponse, error) {
	f.searchCalls++
	f.lastQuery = query
	return f.searchResp, f.searchErr
}

func (f *fakeProvider) Answer(_ context.Context, query, _, _ string) (*discovery.AnswerResponse, error) {
	f.answerCalls++
	f.lastQuery = query
	return f.answerResp, f.answerErr
}

func testConfig() Config {
	return Config{
		FailureThreshold: 2,
		BreakerCooldown:  time.Minute,
		Retry:            resilience.RetryConfig{MaxAttempts: 1, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond},
		CacheTTL:         time.Minute,
		ContextLength:    1500,
	}
}

func searchResponse() *discovery.SearchResponse {
	return &discovery.SearchResponse{
		SessionInfo: discovery.SessionInfo{Name: "sessions/abc", QueryID: "q-1"},
		Results: []discovery.SearchResult{
			{Document: discovery.Document{
				DerivedStructData: discovery.DerivedStructData{
					Title: "요금제 안내",
					Link:  "https://docs.example.com/plans",
					Snippets: []discovery.Snippet{
						{Snippet: "<b>베이직</b> 플랜 안내", SnippetStatus: "SUCCESS"},
					},
				},
			}},
			{Document: discovery.Document{
				DerivedStructData: discovery.DerivedStructData{
					Title: "기능 비교",
					Link:  "https://docs.example.com/features",
					Snippets: []discovery.Snippet{
						{Snippet: "기능 비교 내용", SnippetStatus: "SUCCESS"},
					},
				},
			}},
		},
	}
}

func TestGenerateAnswerFullFlow(t *testing.T) {
	provider := &fakeProvider{
		searchResp: searchResponse(),
		answerResp: &discovery.AnswerResponse{
			Answer:           discovery.Answer{AnswerText: "베이직 플랜은 이메일 기능을 제공합니다."},
			RelatedQuestions: []discovery.RelatedQuestion{{Question: "프로 플랜은요?"}},
		},
	}
	engine := NewEngine(provider, nil, testConfig(), logger.Nop())

	result, err := engine.GenerateAnswer(context.Background(), "베이직 플랜 기능")
	if err != nil {
		t.Fatal(err)
	}
	if result.AnswerText != "베이직 플랜은 이메일 기능을 제공합니다." {
		t.Errorf("unexpected answer: %q", result.AnswerText)
	}
	if result.QueryID != "q-1" || result.SessionID != "sessions/abc" {
		t.Errorf("session threading lost: %q %q", result.QueryID, result.SessionID)
	}
	if len(result.RelatedQuestions) != 1 {
		t.Errorf("related questions lost: %v", result.RelatedQuestions)
	}
	// Provider returned no citations: they get synthesized from search docs.
	if len(result.Citations) != 2 {
		t.Fatalf("expected 2 synthesized citations, got %v", result.Citations)
	}
	if result.Citations[0].URI != "https://docs.example.com/plans" {
		t.Errorf("unexpected citation: %+v", result.Citations[0])
	}
}

func TestAnswerInSessionSkipsSearch(t *testing.T) {
	provider := &fakeProvider{
		answerResp: &discovery.AnswerResponse{
			Answer: discovery.Answer{AnswerText: "이어지는 답변입니다."},
		},
	}
	engine := NewEngine(provider, nil, testConfig(), logger.Nop())

	result, err := engine.AnswerInSession(context.Background(), "후속 질문", "q-1", "sessions/abc")
	if err != nil {
		t.Fatal(err)
	}
	if provider.searchCalls != 0 {
		t.Errorf("threaded answer must not search, got %d calls", provider.searchCalls)
	}
	if provider.answerCalls != 1 {
		t.Errorf("expected 1 answer call, got %d", provider.answerCalls)
	}
	if result.QueryID != "q-1" || result.SessionID != "sessions/abc" {
		t.Errorf("session state lost: %q %q", result.QueryID, result.SessionID)
	}
}

func TestAnswerInSessionBlankStateDegrades(t *testing.T) {
	provider := &fakeProvider{
		searchResp: searchResponse(),
		answerResp: &discovery.AnswerResponse{
			Answer: discovery.Answer{AnswerText: "새 세션 답변입니다."},
		},
	}
	engine := NewEngine(provider, nil, testConfig(), logger.Nop())

	result, err := engine.AnswerInSession(context.Background(), "질문", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if provider.searchCalls != 1 {
		t.Errorf("blank session state should run the full flow, got %d searches", provider.searchCalls)
	}
	if result.SessionID != "sessions/abc" {
		t.Errorf("expected fresh provider session, got %q", result.SessionID)
	}
}

func TestGenerateAnswerSnippetFallback(t *testing.T) {
	provider := &fakeProvider{
		searchResp: searchResponse(),
		answerErr:  &discovery.APIError{Operation: "answer", StatusCode: 400, Body: "bad"},
	}
	engine := NewEngine(provider, nil, testConfig(), logger.Nop())

	result, err := engine.GenerateAnswer(context.Background(), "질문")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.AnswerText, "검색 결과를 바탕으로 한 답변입니다") {
		t.Errorf("expected snippet fallback, got %q", result.AnswerText)
	}
	if !strings.Contains(result.AnswerText, "베이직 플랜 안내") {
		t.Errorf("fallback missing snippet content (and markup should be stripped): %q", result.AnswerText)
	}
}

func TestGenerateAnswerCaches(t *testing.T) {
	provider := &fakeProvider{
		searchResp: searchResponse(),
		answerResp: &discovery.AnswerResponse{Answer: discovery.Answer{AnswerText: "답변"}},
	}
	store := cache.NewMemoryStore(10, time.Hour)
	engine := NewEngine(provider, store, testConfig(), logger.Nop())

	ctx := context.Background()
	if _, err := engine.GenerateAnswer(ctx, "질문"); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.GenerateAnswer(ctx, "질문"); err != nil {
		t.Fatal(err)
	}
	if provider.searchCalls != 1 {
		t.Errorf("search called %d times, want 1 (second hit cached)", provider.searchCalls)
	}
}

func TestGenerateAnswerBreakerFailsFast(t *testing.T) {
	provider := &fakeProvider{
		searchErr: &discovery.APIError{Operation: "search", StatusCode: 500, Body: "boom"},
	}
	engine := NewEngine(provider, nil, testConfig(), logger.Nop())
	ctx := context.Background()

	// Threshold is 2: two failed calls open the search breaker.
	engine.GenerateAnswer(ctx, "a")
	engine.GenerateAnswer(ctx, "b")

	callsBefore := provider.searchCalls
	_, err := engine.GenerateAnswer(ctx, "c")
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if provider.searchCalls != callsBefore {
		t.Error("provider called while circuit open")
	}
}

func TestHybridAnswerInjectsContext(t *testing.T) {
	provider := &fakeProvider{
		searchResp: searchResponse(),
		answerResp: &discovery.AnswerResponse{Answer: discovery.Answer{AnswerText: "답변"}},
	}
	engine := NewEngine(provider, nil, testConfig(), logger.Nop())

	result, err := engine.HybridAnswer(context.Background(), "요금제 차이가 궁금해요")
	if err != nil {
		t.Fatal(err)
	}
	if result.EngineType != EngineHybrid {
		t.Errorf("engine_type = %q, want %q", result.EngineType, EngineHybrid)
	}
	if !strings.Contains(provider.lastQuery, "관련 참고 정보") {
		t.Errorf("context block missing from outbound query: %q", provider.lastQuery)
	}
	if !strings.Contains(provider.lastQuery, "요금제 안내") {
		t.Errorf("search context content missing: %q", provider.lastQuery)
	}
}

func TestTripleGroundedAnswer(t *testing.T) {
	provider := &fakeProvider{
		searchResp: searchResponse(),
		answerResp: &discovery.AnswerResponse{Answer: discovery.Answer{AnswerText: "답변"}},
	}
	engine := NewEngine(provider, nil, testConfig(), logger.Nop())

	triples := []string{"처음서비스 제공 이메일마케팅", "베이직플랜 포함 발송기능"}
	result, err := engine.TripleGroundedAnswer(context.Background(), "질문", triples)
	if err != nil {
		t.Fatal(err)
	}
	if result.EngineType != EngineTripleGrounded {
		t.Errorf("engine_type = %q, want %q", result.EngineType, EngineTripleGrounded)
	}
	if !strings.Contains(provider.lastQuery, "처음서비스 제공 이메일마케팅") {
		t.Errorf("triple grounding missing from outbound query")
	}
}

func TestTripleGroundedWithoutTriplesDegradesToHybrid(t *testing.T) {
	provider := &fakeProvider{
		searchResp: searchResponse(),
		answerResp: &discovery.AnswerResponse{Answer: discovery.Answer{AnswerText: "답변"}},
	}
	engine := NewEngine(provider, nil, testConfig(), logger.Nop())

	result, err := engine.TripleGroundedAnswer(context.Background(), "질문", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.EngineType != EngineHybrid {
		t.Errorf("engine_type = %q, want %q", result.EngineType, EngineHybrid)
	}
}
