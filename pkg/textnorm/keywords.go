package textnorm

import (
	"strings"
)

const (
	defaultMinKeywordLen = 2
	maxSearchKeywords    = 8
)

// cleanText strips everything except word characters and Hangul before
// tokenization.
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	cleaned := nonWordRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(cleaned, " "))
}

// ExtractKeywords tokenizes the text and keeps up to maxKeywords tokens of
// at least minLength runes, skipping stopwords and duplicates. Order of
// appearance is preserved.
func (n *Normalizer) ExtractKeywords(text string, minLength, maxKeywords int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	tokens := strings.Fields(cleanText(text))
	keywords := make([]string, 0, maxKeywords)
	seen := make(map[string]struct{})

	for _, token := range tokens {
		lower := strings.ToLower(token)
		if len([]rune(token)) < minLength {
			continue
		}
		if _, stop := n.stopwords[lower]; stop {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		keywords = append(keywords, token)
		seen[lower] = struct{}{}
		if len(keywords) >= maxKeywords {
			break
		}
	}
	return keywords
}

// SearchTerms normalizes the prompt and extracts keywords for retrieval.
// If the strict pass yields fewer than two keywords the minimum length is
// relaxed to one rune, and as a last resort the whole normalized (or raw)
// prompt is returned as a single term.
func (n *Normalizer) SearchTerms(userPrompt string) []string {
	normalized := n.NormalizeForSearch(userPrompt)

	if normalized != userPrompt && n.log != nil {
		n.log.Debug("TEXTNORM", "Query normalized", map[string]interface{}{
			"original":   userPrompt,
			"normalized": normalized,
		})
	}

	keywords := n.ExtractKeywords(normalized, defaultMinKeywordLen, maxSearchKeywords)
	if len(keywords) < 2 {
		keywords = n.ExtractKeywords(normalized, 1, maxSearchKeywords)
	}
	if len(keywords) == 0 {
		if trimmed := strings.TrimSpace(normalized); trimmed != "" {
			return []string{trimmed}
		}
		if trimmed := strings.TrimSpace(userPrompt); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}
	return keywords
}
