// Package facts reads subject-predicate-object triples from the knowledge
// store and renders them for prompt grounding.
package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"graphrag-chatbot-be/internal/model"
	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/internal/repository/contract"
	"graphrag-chatbot-be/pkg/cache"
	"graphrag-chatbot-be/pkg/resilience"
)

const (
	keywordSearchLimit = 50
	partsSearchLimit   = 30
	queryCacheTTL      = time.Hour
)

type Client struct {
	repo  contract.TripleRepository
	cache cache.Store
	retry resilience.RetryConfig
	log   logger.ILogger
}

func NewClient(repo contract.TripleRepository, store cache.Store, log logger.ILogger) *Client {
	return &Client{
		repo:  repo,
		cache: store,
		retry: resilience.DefaultRetryConfig(),
		log:   log,
	}
}

// QueryByText searches triples matching any whitespace-separated keyword
// of the prompt. Results are deduplicated, rendered as text lines and
// cached for an hour. Failures carry a kind: ErrStoreUnavailable when the
// store is unreachable, ErrQueryFailed otherwise.
func (c *Client) QueryByText(ctx context.Context, prompt string) ([]string, error) {
	cacheKey := cache.Key("facts_text", prompt)
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, cacheKey); ok {
			var lines []string
			if err := json.Unmarshal([]byte(cached), &lines); err == nil {
				c.log.Debug("FACTS", "Triple query served from cache", map[string]interface{}{
					"count": len(lines),
				})
				return lines, nil
			}
		}
	}

	keywords := strings.Fields(prompt)

	var lines []string
	err := resilience.Retry(ctx, c.retry, c.log, "facts.query_by_text", func() error {
		triples, err := c.repo.SearchByKeywords(ctx, keywords, keywordSearchLimit)
		if err != nil {
			return err
		}
		lines = renderUnique(triples)
		return nil
	})
	if err != nil {
		kind := classify(err)
		c.log.Error("FACTS", "Triple query failed", map[string]interface{}{
			"prompt": prompt,
			"kind":   kind.Error(),
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", kind, err)
	}

	c.log.Info("FACTS", "Triple query completed", map[string]interface{}{
		"prompt": prompt,
		"count":  len(lines),
	})

	if c.cache != nil {
		if encoded, err := json.Marshal(lines); err == nil {
			c.cache.Set(ctx, cacheKey, string(encoded), queryCacheTTL)
		}
	}
	return lines, nil
}

// QueryByParts searches by explicit triple elements. Blank elements are
// ignored; all blank yields an empty result with a warning, not an error.
func (c *Client) QueryByParts(ctx context.Context, subject, predicate, object string) ([]string, error) {
	if strings.TrimSpace(subject) == "" && strings.TrimSpace(predicate) == "" && strings.TrimSpace(object) == "" {
		c.log.Warn("FACTS", "All triple elements blank, skipping query", nil)
		return nil, nil
	}

	var lines []string
	err := resilience.Retry(ctx, c.retry, c.log, "facts.query_by_parts", func() error {
		triples, err := c.repo.SearchByParts(ctx, subject, predicate, object, partsSearchLimit)
		if err != nil {
			return err
		}
		lines = renderUnique(triples)
		return nil
	})
	if err != nil {
		kind := classify(err)
		c.log.Error("FACTS", "Triple parts query failed", map[string]interface{}{
			"subject":   subject,
			"predicate": predicate,
			"object":    object,
			"kind":      kind.Error(),
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", kind, err)
	}
	return lines, nil
}

// renderUnique formats triples as "<subject> <predicate> <object>" lines
// and drops duplicates while keeping store order.
func renderUnique(triples []model.Triple) []string {
	lines := make([]string, 0, len(triples))
	seen := make(map[string]struct{}, len(triples))
	for _, t := range triples {
		line := t.Text()
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	return lines
}
