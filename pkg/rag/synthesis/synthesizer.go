// Package synthesis consolidates the fact-grounded and retrieval-based
// answer flows into the single final answer returned to the caller.
package synthesis

import (
	"context"
	"strings"

	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/pkg/rag"
)

// DeclineMessage replaces an answer that failed relevance validation or
// that no flow could produce.
const DeclineMessage = "죄송하지만 관련 정보를 찾을 수 없습니다. 처음서비스와 관련된 구체적인 질문을 해주시면 더 정확한 답변을 제공할 수 있습니다."

const (
	// minDirectUseLength is the rune count past which a retrieval answer
	// that already carries references is used as-is, skipping the merge
	// call.
	minDirectUseLength = 300
	referencesMarker   = "참고 문서"
)

// Merger is the consolidation surface of the answer engine. Satisfied by
// *rag.Engine.
type Merger interface {
	MergeAnswers(ctx context.Context, query, tripleAnswer, retrievalAnswer string) (*rag.GeneratedAnswer, error)
}

// QualityCheck reports how the final answer was formed.
type QualityCheck struct {
	RelevancePassed bool `json:"relevance_passed"`
	TriplesFound    bool `json:"triples_found"`
	MergedAnswer    bool `json:"merged_answer"`
}

// Result is the terminal answer artifact of the synthesis step.
type Result struct {
	Answer       *rag.GeneratedAnswer `json:"answer"`
	QualityCheck QualityCheck         `json:"quality_check"`
}

type Synthesizer struct {
	merger Merger
	log    logger.ILogger
}

func NewSynthesizer(merger Merger, log logger.ILogger) *Synthesizer {
	return &Synthesizer{merger: merger, log: log}
}

// Synthesize combines an optional fact-grounded answer and an optional
// retrieval answer into one validated final answer. With both present the
// engine is asked for a third consolidation pass, unless the retrieval
// answer is already long and self-referencing. A merge failure degrades to
// the retrieval answer rather than surfacing an error.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, factAnswer, retrievalAnswer *rag.GeneratedAnswer) *Result {
	result := &Result{
		QualityCheck: QualityCheck{TriplesFound: hasText(factAnswer)},
	}

	switch {
	case hasText(factAnswer) && hasText(retrievalAnswer):
		if usableDirectly(retrievalAnswer) {
			result.Answer = retrievalAnswer
			break
		}
		merged, err := s.merger.MergeAnswers(ctx, query, factAnswer.AnswerText, retrievalAnswer.AnswerText)
		if err != nil {
			s.log.Warn("SYNTHESIS", "Merge call failed, using retrieval answer", map[string]interface{}{
				"error": err.Error(),
			})
			result.Answer = retrievalAnswer
			break
		}
		result.Answer = carryReferences(merged, retrievalAnswer)
		result.QualityCheck.MergedAnswer = true
	case hasText(factAnswer):
		result.Answer = factAnswer
	case hasText(retrievalAnswer):
		result.Answer = retrievalAnswer
	default:
		result.Answer = &rag.GeneratedAnswer{
			AnswerText: DeclineMessage,
			EngineType: rag.EngineErrorFallback,
		}
		return result
	}

	if ValidateRelevance(query, result.Answer.AnswerText) {
		result.QualityCheck.RelevancePassed = true
	} else {
		s.log.Info("SYNTHESIS", "Relevance validation failed, declining", map[string]interface{}{
			"answer_length": len([]rune(result.Answer.AnswerText)),
			"engine_type":   result.Answer.EngineType,
		})
		declined := *result.Answer
		declined.AnswerText = DeclineMessage
		result.Answer = &declined
	}
	return result
}

func hasText(answer *rag.GeneratedAnswer) bool {
	return answer != nil && strings.TrimSpace(answer.AnswerText) != ""
}

// usableDirectly reports whether a retrieval answer is substantial enough
// to skip the consolidation call: long, and already carrying references
// either inline or as structured citations.
func usableDirectly(answer *rag.GeneratedAnswer) bool {
	if len([]rune(answer.AnswerText)) < minDirectUseLength {
		return false
	}
	return strings.Contains(answer.AnswerText, referencesMarker) || len(answer.Citations) > 0
}

// carryReferences keeps the retrieval answer's citations and related
// questions on a merged answer, whose own generation pass rarely returns
// any.
func carryReferences(merged, retrieval *rag.GeneratedAnswer) *rag.GeneratedAnswer {
	if len(merged.Citations) == 0 {
		merged.Citations = retrieval.Citations
	}
	if len(merged.RelatedQuestions) == 0 {
		merged.RelatedQuestions = retrieval.RelatedQuestions
	}
	return merged
}
