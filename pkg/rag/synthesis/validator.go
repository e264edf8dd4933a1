package synthesis

import "strings"

// avoidancePhrases mark a generated answer as a non-answer. Any hit fails
// validation regardless of length or topicality.
var avoidancePhrases = []string{
	"죄송하지만",
	"답변드릴 수 없습니다",
	"제공해드리기 어렵습니다",
	"정보가 없습니다",
	"확인할 수 없습니다",
	"알 수 없습니다",
}

// relevantKeywords anchor an answer to the service domain. At least one
// must appear for the answer to pass.
var relevantKeywords = []string{
	"처음서비스",
	"마이메일러",
	"처음소프트",
	"이메일",
	"발송",
	"설문",
	"서비스",
	"솔루션",
	"고객",
	"기업",
	"대행",
}

// minValidAnswerLength is the minimum rune count for a substantive answer.
const minValidAnswerLength = 50

// ValidateRelevance runs the keyword heuristic over a generated answer:
// reject avoidance phrasing, require at least one domain keyword and a
// minimum length. The query is unused today but kept in the signature so a
// provider-backed check can slot in without changing callers.
func ValidateRelevance(query, answerText string) bool {
	_ = query
	trimmed := strings.TrimSpace(answerText)
	if len([]rune(trimmed)) <= minValidAnswerLength {
		return false
	}
	for _, phrase := range avoidancePhrases {
		if strings.Contains(trimmed, phrase) {
			return false
		}
	}
	for _, keyword := range relevantKeywords {
		if strings.Contains(trimmed, keyword) {
			return true
		}
	}
	return false
}
