// Package discovery is the HTTP client for the managed search-and-answer
// provider. It exposes the two raw operations (document search, grounded
// answer generation) the answer engine composes.
package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"

	"graphrag-chatbot-be/internal/pkg/logger"
)

const defaultBaseURL = "https://discoveryengine.googleapis.com/v1alpha"

type Config struct {
	BaseURL       string
	ProjectID     string
	Location      string
	Collection    string
	EngineID      string
	ServingConfig string
	PageSize      int
	ModelVersion  string
	// PreamblePath points at the system prompt file injected into answer
	// generation. Loaded once at construction; Preamble is the fallback
	// text when no path is configured.
	PreamblePath string
	Preamble     string
}

func DefaultConfig() Config {
	return Config{
		BaseURL:       defaultBaseURL,
		Location:      "global",
		Collection:    "default_collection",
		ServingConfig: "default_search",
		PageSize:      10,
		ModelVersion:  "gemini-2.5-flash/answer_gen/v1",
	}
}

type Client struct {
	httpClient *http.Client
	tokens     oauth2.TokenSource
	config     Config
	preamble   string
	log        logger.ILogger
}

// newPooledHTTPClient mirrors the connection-pool profile the provider
// tolerates well: generous total timeout for long generations, short
// connect timeout, bounded keep-alive pool.
func newPooledHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 300 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     30 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}
}

func NewClient(config Config, tokens oauth2.TokenSource, log logger.ILogger) (*Client, error) {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.PageSize <= 0 {
		config.PageSize = DefaultConfig().PageSize
	}
	if config.ProjectID == "" || config.EngineID == "" {
		return nil, fmt.Errorf("discovery client requires project id and engine id")
	}

	preamble := config.Preamble
	if config.PreamblePath != "" {
		raw, err := os.ReadFile(config.PreamblePath)
		if err != nil {
			return nil, fmt.Errorf("load system prompt %s: %w", config.PreamblePath, err)
		}
		preamble = string(raw)
	}

	return &Client{
		httpClient: newPooledHTTPClient(),
		tokens:     tokens,
		config:     config,
		preamble:   preamble,
		log:        log,
	}, nil
}

func (c *Client) servingConfigURL(verb string) string {
	return fmt.Sprintf("%s/projects/%s/locations/%s/collections/%s/engines/%s/servingConfigs/%s:%s",
		c.config.BaseURL, c.config.ProjectID, c.config.Location, c.config.Collection,
		c.config.EngineID, c.config.ServingConfig, verb)
}

func (c *Client) sessionWildcard() string {
	return fmt.Sprintf("projects/%s/locations/%s/collections/%s/engines/%s/sessions/-",
		c.config.ProjectID, c.config.Location, c.config.Collection, c.config.EngineID)
}

// Search runs a document search. The query is truncated to the provider's
// limit before sending.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	payload := searchRequest{
		Query:               TruncateQuery(query, MaxQueryLength),
		PageSize:            c.config.PageSize,
		Session:             c.sessionWildcard(),
		SpellCorrectionSpec: spellCorrectionSpec{Mode: "AUTO"},
		LanguageCode:        "ko",
		UserInfo:            userInfo{TimeZone: "Asia/Seoul"},
		ContentSearchSpec: contentSearchSpec{
			SnippetSpec: snippetSpec{ReturnSnippet: true, MaxSnippetCount: 3},
			SummarySpec: &summarySpec{
				SummaryResultCount:     5,
				IncludeCitations:       true,
				IgnoreAdversarialQuery: true,
				ModelPromptSpec:        modelPromptSpec{Preamble: "한국어로 상세한 답변을 제공해주세요."},
			},
		},
	}

	var result SearchResponse
	if err := c.post(ctx, "search", c.servingConfigURL("search"), payload, &result); err != nil {
		return nil, err
	}

	c.log.Debug("DISCOVERY", "Search completed", map[string]interface{}{
		"results":  len(result.Results),
		"query_id": result.SessionInfo.QueryID,
	})
	return &result, nil
}

// Answer generates a grounded answer. queryID and session thread the
// answer call onto a prior search so the provider reuses its retrieval.
func (c *Client) Answer(ctx context.Context, query, queryID, session string) (*AnswerResponse, error) {
	payload := answerRequest{
		Query:                answerQuery{Text: TruncateQuery(query, MaxQueryLength), QueryID: queryID},
		Session:              session,
		RelatedQuestionsSpec: relatedQuestionsSpec{Enable: true},
		AnswerGenerationSpec: answerGenerationSpec{
			MultimodalSpec:   multimodalSpec{ImageSource: "CORPUS_IMAGE_ONLY"},
			IncludeCitations: true,
			PromptSpec:       promptSpec{Preamble: c.preamble},
			ModelSpec:        modelSpec{ModelVersion: c.config.ModelVersion},
		},
	}

	var result AnswerResponse
	if err := c.post(ctx, "answer", c.servingConfigURL("answer"), payload, &result); err != nil {
		return nil, err
	}

	c.log.Debug("DISCOVERY", "Answer completed", map[string]interface{}{
		"answer_length":     len(result.Answer.AnswerText),
		"citations":         len(result.Answer.Citations),
		"related_questions": len(result.RelatedQuestions),
	})
	return &result, nil
}

func (c *Client) post(ctx context.Context, operation, url string, payload, out interface{}) error {
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("acquire provider token: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	token.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", operation, err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{Operation: operation, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}
