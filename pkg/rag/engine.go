// Package rag composes the external search-and-answer provider into the
// answer flows the chat service consumes: plain grounded answers, hybrid
// answers built on explicit search context, and fact-grounded answers.
package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/pkg/cache"
	"graphrag-chatbot-be/pkg/discovery"
	"graphrag-chatbot-be/pkg/resilience"
)

// Engine type markers reported in response metadata.
const (
	EngineDiscovery      = "discovery_engine"
	EngineHybrid         = "hybrid"
	EngineTripleGrounded = "triple_grounded"
	EngineSummary        = "summary"
	EngineErrorFallback  = "error_fallback"
)

const (
	maxTripleTextLength  = 800
	tripleContextLength  = 700
	maxMergeAnswerLength = 1500
)

// Provider is the raw search/answer surface the engine composes. Satisfied
// by *discovery.Client.
type Provider interface {
	Search(ctx context.Context, query string) (*discovery.SearchResponse, error)
	Answer(ctx context.Context, query, queryID, session string) (*discovery.AnswerResponse, error)
}

// GeneratedAnswer is the engine's result shape, shared by all flows.
type GeneratedAnswer struct {
	AnswerText       string                   `json:"answer_text"`
	Citations        []discovery.Citation     `json:"citations"`
	SearchResults    []discovery.SearchResult `json:"search_results"`
	RelatedQuestions []string                 `json:"related_questions"`
	QueryID          string                   `json:"query_id"`
	SessionID        string                   `json:"session_id"`
	EngineType       string                   `json:"engine_type"`
	FinalQuery       string                   `json:"final_query_used"`
}

type Config struct {
	FailureThreshold uint32
	BreakerCooldown  time.Duration
	Retry            resilience.RetryConfig
	CacheTTL         time.Duration
	ContextLength    int
}

func DefaultConfig() Config {
	return Config{
		FailureThreshold: resilience.DefaultFailureThreshold,
		BreakerCooldown:  resilience.DefaultCooldown,
		Retry:            resilience.DefaultRetryConfig(),
		CacheTTL:         cache.DefaultTTL,
		ContextLength:    DefaultContextLength,
	}
}

type Engine struct {
	provider      Provider
	cache         cache.Store
	searchBreaker *resilience.Breaker
	answerBreaker *resilience.Breaker
	config        Config
	log           logger.ILogger
}

func NewEngine(provider Provider, store cache.Store, config Config, log logger.ILogger) *Engine {
	if config.ContextLength <= 0 {
		config = DefaultConfig()
	}
	return &Engine{
		provider:      provider,
		cache:         store,
		searchBreaker: resilience.NewBreaker("discovery.search", config.FailureThreshold, config.BreakerCooldown, log),
		answerBreaker: resilience.NewBreaker("discovery.answer", config.FailureThreshold, config.BreakerCooldown, log),
		config:        config,
		log:           log,
	}
}

// retryableOnly converts non-transient provider failures into permanent
// errors so the retry layer stops immediately.
func retryableOnly(err error) error {
	var apiErr *discovery.APIError
	if errors.As(err, &apiErr) && !apiErr.Retryable() {
		return resilience.Permanent(err)
	}
	return err
}

// Search runs a provider search under the search breaker and retry policy.
func (e *Engine) Search(ctx context.Context, query string) (*discovery.SearchResponse, error) {
	var result *discovery.SearchResponse
	err := resilience.Retry(ctx, e.config.Retry, e.log, "rag.search", func() error {
		raw, err := e.searchBreaker.Execute(func() (any, error) {
			return e.provider.Search(ctx, query)
		})
		if err != nil {
			if errors.Is(err, resilience.ErrCircuitOpen) {
				return resilience.Permanent(err)
			}
			return retryableOnly(err)
		}
		result = raw.(*discovery.SearchResponse)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// answer runs a provider answer call under the answer breaker and retry
// policy.
func (e *Engine) answer(ctx context.Context, query, queryID, session string) (*discovery.AnswerResponse, error) {
	var result *discovery.AnswerResponse
	err := resilience.Retry(ctx, e.config.Retry, e.log, "rag.answer", func() error {
		raw, err := e.answerBreaker.Execute(func() (any, error) {
			return e.provider.Answer(ctx, query, queryID, session)
		})
		if err != nil {
			if errors.Is(err, resilience.ErrCircuitOpen) {
				return resilience.Permanent(err)
			}
			return retryableOnly(err)
		}
		result = raw.(*discovery.AnswerResponse)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) cachedAnswer(ctx context.Context, query string) (*GeneratedAnswer, bool) {
	if e.cache == nil {
		return nil, false
	}
	raw, ok := e.cache.Get(ctx, cache.Key("answer", query))
	if !ok {
		return nil, false
	}
	var answer GeneratedAnswer
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		return nil, false
	}
	e.log.Debug("RAG", "Answer served from cache", map[string]interface{}{
		"query_length": len(query),
	})
	return &answer, true
}

func (e *Engine) cacheAnswer(ctx context.Context, query string, answer *GeneratedAnswer) {
	if e.cache == nil {
		return
	}
	if encoded, err := json.Marshal(answer); err == nil {
		e.cache.Set(ctx, cache.Key("answer", query), string(encoded), e.config.CacheTTL)
	}
}

// GenerateAnswer is the complete search-then-answer flow: search, thread
// the provider session into the answer call, degrade to a snippet-based
// answer when answer generation fails, and synthesize citations when the
// provider returns none. Results are cached by the exact outbound query.
func (e *Engine) GenerateAnswer(ctx context.Context, query string) (*GeneratedAnswer, error) {
	if cached, ok := e.cachedAnswer(ctx, query); ok {
		return cached, nil
	}

	searchResult, err := e.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search phase: %w", err)
	}

	queryID := searchResult.SessionInfo.QueryID
	session := searchResult.SessionInfo.Name

	result := &GeneratedAnswer{
		SearchResults: searchResult.Results,
		QueryID:       queryID,
		SessionID:     session,
		EngineType:    EngineDiscovery,
		FinalQuery:    query,
	}

	if queryID != "" && session != "" {
		answerResult, err := e.answer(ctx, query, queryID, session)
		if err != nil {
			e.log.Error("RAG", "Answer generation failed, degrading to snippets", map[string]interface{}{
				"error": err.Error(),
			})
			result.AnswerText = snippetFallback(searchResult.Results, "검색 결과를 바탕으로 한 답변입니다:")
		} else {
			result.AnswerText = answerResult.Answer.AnswerText
			result.Citations = referenceCitations(answerResult)
			for _, q := range answerResult.RelatedQuestions {
				if q.Question != "" {
					result.RelatedQuestions = append(result.RelatedQuestions, q.Question)
				}
			}
		}
	} else {
		e.log.Warn("RAG", "Provider session missing, using snippet answer", nil)
		result.AnswerText = snippetFallback(searchResult.Results, "검색 결과를 바탕으로 한 답변입니다:")
	}

	if len(result.Citations) == 0 && len(searchResult.Results) > 0 {
		result.Citations = SynthesizeCitations(searchResult.Results)
	}

	if strings.TrimSpace(result.AnswerText) == "" {
		result.AnswerText = "검색 결과를 찾을 수 없습니다."
	}

	e.cacheAnswer(ctx, query, result)
	return result, nil
}

// AnswerInSession answers a follow-up question inside an existing provider
// session, skipping the search phase. Blank session state degrades to the
// full flow.
func (e *Engine) AnswerInSession(ctx context.Context, query, queryID, session string) (*GeneratedAnswer, error) {
	if queryID == "" || session == "" {
		return e.GenerateAnswer(ctx, query)
	}

	answerResult, err := e.answer(ctx, query, queryID, session)
	if err != nil {
		return nil, fmt.Errorf("answer phase: %w", err)
	}

	result := &GeneratedAnswer{
		AnswerText: answerResult.Answer.AnswerText,
		Citations:  referenceCitations(answerResult),
		QueryID:    queryID,
		SessionID:  session,
		EngineType: EngineDiscovery,
		FinalQuery: query,
	}
	for _, q := range answerResult.RelatedQuestions {
		if q.Question != "" {
			result.RelatedQuestions = append(result.RelatedQuestions, q.Question)
		}
	}
	if strings.TrimSpace(result.AnswerText) == "" {
		result.AnswerText = "검색 결과를 찾을 수 없습니다."
	}
	return result, nil
}

// HybridAnswer searches first, folds the results into an explicit context
// block and answers against the enriched query. Falls back to the plain
// flow when search yields nothing usable.
func (e *Engine) HybridAnswer(ctx context.Context, query string) (*GeneratedAnswer, error) {
	if cached, ok := e.cachedAnswer(ctx, query); ok {
		return cached, nil
	}

	searchResult, err := e.Search(ctx, query)
	if err != nil || len(searchResult.Results) == 0 {
		if err != nil {
			e.log.Warn("RAG", "Hybrid search failed, using plain flow", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return e.GenerateAnswer(ctx, query)
	}

	searchContext := BuildContext(searchResult.Results, searchResult.Summary, e.config.ContextLength)
	if searchContext == "" {
		return e.GenerateAnswer(ctx, query)
	}

	enhancedQuery := fmt.Sprintf(`질문: %s

관련 참고 정보:
%s

위 참고 정보를 바탕으로 질문에 대해 정확하고 상세한 답변을 해주세요.`, query, searchContext)

	result, err := e.GenerateAnswer(ctx, enhancedQuery)
	if err != nil {
		return nil, err
	}
	result.EngineType = EngineHybrid
	e.cacheAnswer(ctx, query, result)
	return result, nil
}

// TripleGroundedAnswer blends fact-store triples with fresh search context
// before generation. Without triples it degrades to HybridAnswer.
func (e *Engine) TripleGroundedAnswer(ctx context.Context, query string, triples []string) (*GeneratedAnswer, error) {
	if len(triples) == 0 {
		return e.HybridAnswer(ctx, query)
	}

	tripleText := strings.Join(triples, "\n")
	if runes := []rune(tripleText); len(runes) > maxTripleTextLength {
		tripleText = string(runes[:maxTripleTextLength]) + "..."
		e.log.Warn("RAG", "Triple context truncated", map[string]interface{}{
			"triple_count": len(triples),
		})
	}

	searchContext := ""
	if searchResult, err := e.Search(ctx, query); err == nil {
		searchContext = BuildContext(searchResult.Results, searchResult.Summary, tripleContextLength)
	}

	enhancedQuery := fmt.Sprintf(`질문: %s

데이터베이스 Triple 정보:
%s

검색된 추가 참고 정보:
%s

위 모든 정보를 종합하여 정확하고 상세한 답변을 해주세요.`, query, tripleText, searchContext)

	result, err := e.GenerateAnswer(ctx, enhancedQuery)
	if err != nil {
		return nil, err
	}
	result.EngineType = EngineTripleGrounded
	return result, nil
}

// MergeAnswers asks the provider to consolidate a fact-grounded answer and
// a retrieval answer into one response.
func (e *Engine) MergeAnswers(ctx context.Context, query, tripleAnswer, retrievalAnswer string) (*GeneratedAnswer, error) {
	combinedQuery := fmt.Sprintf(`질문: %s

참고답변1: %s

참고답변2: %s

위 정보를 종합하여 답변해주세요.`, query, capRunes(tripleAnswer, maxMergeAnswerLength), capRunes(retrievalAnswer, maxMergeAnswerLength))

	result, err := e.GenerateAnswer(ctx, combinedQuery)
	if err != nil {
		return nil, err
	}
	result.EngineType = EngineSummary
	return result, nil
}

func capRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// snippetFallback renders a numbered snippet digest when answer
// generation is unavailable.
func snippetFallback(results []discovery.SearchResult, header string) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(header + "\n\n")
	count := 0
	for _, result := range results {
		if count >= maxSynthesizedCitations {
			break
		}
		snippets := documentSnippets(result)
		if len(snippets) == 0 {
			continue
		}
		count++
		b.WriteString(fmt.Sprintf("%d. %s\n\n", count, snippets[0]))
	}
	if count == 0 {
		return ""
	}
	return b.String()
}

// referenceCitations maps provider citations/references onto the
// title/uri shape the API exposes.
func referenceCitations(answer *discovery.AnswerResponse) []discovery.Citation {
	var citations []discovery.Citation
	seen := make(map[string]struct{})

	for _, c := range answer.Answer.Citations {
		if c.URI == "" && c.Title == "" {
			continue
		}
		if _, dup := seen[c.URI]; dup && c.URI != "" {
			continue
		}
		seen[c.URI] = struct{}{}
		citations = append(citations, c)
	}
	for _, ref := range answer.Answer.References {
		if ref.ChunkInfo == nil || ref.ChunkInfo.DocumentMetadata == nil {
			continue
		}
		meta := ref.ChunkInfo.DocumentMetadata
		if meta.URI == "" {
			continue
		}
		if _, dup := seen[meta.URI]; dup {
			continue
		}
		seen[meta.URI] = struct{}{}
		citations = append(citations, discovery.Citation{
			Title:       meta.Title,
			URI:         meta.URI,
			DisplayName: meta.Title,
		})
	}
	return citations
}

// BreakerStates reports the current circuit states for health reporting.
func (e *Engine) BreakerStates() map[string]string {
	return map[string]string{
		"search": e.searchBreaker.State().String(),
		"answer": e.answerBreaker.State().String(),
	}
}
