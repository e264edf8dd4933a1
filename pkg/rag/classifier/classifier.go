// Package classifier decides how an incoming support query is routed:
// straight to a consultant, retrieval-first, or the default fact+retrieval
// pipeline. Pure keyword and pattern rules, no model calls, deterministic.
package classifier

import (
	"regexp"
	"sort"
	"strings"
)

// Category values attached to sensitive queries.
const (
	CategorySpecificPrice = "specific_price"
	CategoryDiscount      = "discount"
	CategoryConsultant    = "consultant"
	CategoryContract      = "contract"
	CategoryPrivacy       = "privacy"
)

// Query types, last matching rule wins.
const (
	TypeGeneral         = "general"
	TypeGeneralPlanInfo = "general_plan_info"
	TypeSpecificPrice   = "specific_price"
	TypeDiscount        = "discount"
	TypeConsultant      = "consultant_request"
	TypeContract        = "contract"
	TypePrivacy         = "privacy"
)

// Result is the routing decision for one query.
type Result struct {
	IsSensitive      bool     `json:"is_sensitive"`
	ShouldTryRag     bool     `json:"should_try_rag_first"`
	Categories       []string `json:"categories"`
	Confidence       float64  `json:"confidence"`
	MatchedKeywords  []string `json:"matched_keywords"`
	PatternMatched   bool     `json:"pattern_matched"`
	QueryType        string   `json:"query_type"`
}

func containsAny(query string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(query, keyword) {
			return true
		}
	}
	return false
}

func matchedKeywords(query string, keywords []string) []string {
	var matched []string
	for _, keyword := range keywords {
		if strings.Contains(query, keyword) {
			matched = append(matched, keyword)
		}
	}
	return matched
}

func matchesAny(query string, patterns []*regexp.Regexp) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(query) {
			return true
		}
	}
	return false
}

// Classify routes a query. The same input always yields the same Result.
func Classify(query string) Result {
	queryLower := strings.ToLower(query)

	var categories []string
	var matched []string
	queryType := TypeGeneral
	shouldTryRag := false

	hasGeneralPlan := containsAny(queryLower, generalPlanKeywords)
	hasSpecificPrice := containsAny(queryLower, specificPriceKeywords)

	switch {
	case hasGeneralPlan && !hasSpecificPrice:
		queryType = TypeGeneralPlanInfo
		shouldTryRag = true
	case hasSpecificPrice:
		categories = append(categories, CategorySpecificPrice)
		matched = append(matched, matchedKeywords(queryLower, specificPriceKeywords)...)
		queryType = TypeSpecificPrice
	}

	if containsAny(queryLower, discountKeywords) {
		categories = append(categories, CategoryDiscount)
		matched = append(matched, matchedKeywords(queryLower, discountKeywords)...)
		queryType = TypeDiscount
	}
	if containsAny(queryLower, consultantKeywords) {
		categories = append(categories, CategoryConsultant)
		matched = append(matched, matchedKeywords(queryLower, consultantKeywords)...)
		queryType = TypeConsultant
	}
	if containsAny(queryLower, contractKeywords) {
		categories = append(categories, CategoryContract)
		matched = append(matched, matchedKeywords(queryLower, contractKeywords)...)
		queryType = TypeContract
	}
	if containsAny(queryLower, privacyKeywords) {
		categories = append(categories, CategoryPrivacy)
		matched = append(matched, matchedKeywords(queryLower, privacyKeywords)...)
		queryType = TypePrivacy
	}

	patternSpecific := matchesAny(queryLower, specificPricePatterns)
	if patternSpecific {
		categories = append(categories, CategorySpecificPrice)
		queryType = TypeSpecificPrice
	}

	patternGeneral := matchesAny(queryLower, generalInfoPatterns)
	if patternGeneral {
		shouldTryRag = true
		queryType = TypeGeneralPlanInfo
	}

	if matchesAny(queryLower, consultantPatterns) {
		categories = append(categories, CategoryConsultant)
		queryType = TypeConsultant
	}

	uniqueMatched := dedupe(matched)

	confidence := 0.0
	if len(categories) > 0 {
		confidence = 0.4*float64(len(categories)) + 0.15*float64(len(uniqueMatched))
		if confidence > 1.0 {
			confidence = 1.0
		}
	}
	if patternSpecific && confidence < 0.9 {
		confidence = 0.9
	} else if !patternSpecific && patternGeneral && confidence < 0.7 {
		confidence = 0.7
	}

	isSensitive := len(categories) > 0 || patternSpecific
	// Retrieval-friendly queries get a chance before escalating, unless a
	// specific-price pattern fired.
	if shouldTryRag && !patternSpecific {
		isSensitive = false
	}

	return Result{
		IsSensitive:     isSensitive,
		ShouldTryRag:    shouldTryRag,
		Categories:      categories,
		Confidence:      confidence,
		MatchedKeywords: uniqueMatched,
		PatternMatched:  patternSpecific || patternGeneral,
		QueryType:       queryType,
	}
}

// dedupe keeps unique keywords in sorted order so Result comparison is
// stable.
func dedupe(keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(keywords))
	unique := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, k)
	}
	sort.Strings(unique)
	return unique
}
