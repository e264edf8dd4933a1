package discovery

import "strings"

const (
	// MaxQueryLength is the provider's effective query size limit.
	MaxQueryLength = 2000
	// truncateMargin keeps a safety buffer below the limit when cutting
	// on sentence boundaries.
	truncateMargin = 50
)

// TruncateQuery shortens a query to maxLength runes, preferring whole
// sentences. When sentence cutting yields almost nothing the query is
// hard-cut with an ellipsis instead.
func TruncateQuery(query string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = MaxQueryLength
	}

	runes := []rune(query)
	if len(runes) <= maxLength {
		return query
	}

	// Tiny limits leave no room for the margin; hard-cut at the limit.
	budget := maxLength - truncateMargin
	if budget < 1 {
		return string(runes[:maxLength])
	}

	sentences := strings.Split(query, ".")
	truncated := ""
	for _, sentence := range sentences {
		candidate := truncated + sentence + "."
		if len([]rune(candidate)) <= budget {
			truncated = candidate
		} else {
			break
		}
	}

	if truncated == "" || len([]rune(truncated)) < 100 {
		truncated = string(runes[:budget]) + "..."
	}

	return truncated
}
