package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"graphrag-chatbot-be/internal/constant"
	"graphrag-chatbot-be/internal/dto"
	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/internal/repository/memory"
	"graphrag-chatbot-be/pkg/discovery"
	"graphrag-chatbot-be/pkg/rag"
	"graphrag-chatbot-be/pkg/rag/classifier"
	"graphrag-chatbot-be/pkg/rag/synthesis"
	"graphrag-chatbot-be/pkg/textnorm"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"golang.org/x/sync/errgroup"
)

// minSufficientAnswerLength is the rune count under which a retrieval-first
// answer counts as insufficient and escalates instead.
const minSufficientAnswerLength = 50

type IChatService interface {
	Generate(ctx context.Context, request *dto.GenerateRequest) *dto.GenerateResponse
	DiscoveryAnswer(ctx context.Context, request *dto.DiscoveryAnswerRequest) (*dto.DiscoveryAnswerResponse, error)
}

// AnswerEngine is the slice of the answer engine the orchestrator drives.
type AnswerEngine interface {
	GenerateAnswer(ctx context.Context, query string) (*rag.GeneratedAnswer, error)
	AnswerInSession(ctx context.Context, query, queryID, session string) (*rag.GeneratedAnswer, error)
	TripleGroundedAnswer(ctx context.Context, query string, triples []string) (*rag.GeneratedAnswer, error)
}

// FactProvider is the slice of the fact store client the orchestrator uses.
type FactProvider interface {
	QueryByText(ctx context.Context, prompt string) ([]string, error)
}

// AnswerSynthesizer consolidates answers from the parallel flows.
type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, query string, factAnswer, retrievalAnswer *rag.GeneratedAnswer) *synthesis.Result
}

type chatService struct {
	engine      AnswerEngine
	factStore   FactProvider
	synthesizer AnswerSynthesizer
	normalizer  *textnorm.Normalizer
	sessionRepo *memory.SessionRepository
	pubSub      *gochannel.GoChannel
	topicName   string
	logger      logger.ILogger
}

func NewChatService(
	engine AnswerEngine,
	factStore FactProvider,
	synthesizer AnswerSynthesizer,
	normalizer *textnorm.Normalizer,
	sessionRepo *memory.SessionRepository,
	pubSub *gochannel.GoChannel,
	topicName string,
	log logger.ILogger,
) IChatService {
	return &chatService{
		engine:      engine,
		factStore:   factStore,
		synthesizer: synthesizer,
		normalizer:  normalizer,
		sessionRepo: sessionRepo,
		pubSub:      pubSub,
		topicName:   topicName,
		logger:      log,
	}
}

// Generate runs the full per-request pipeline: classify, route to the
// right answer flow, synthesize and validate, escalate where automated
// answering is insufficient. It never returns an error: any uncaught
// failure becomes a generic-error response so the conversation UI keeps
// working.
func (cs *chatService) Generate(ctx context.Context, request *dto.GenerateRequest) *dto.GenerateResponse {
	prompt := strings.TrimSpace(request.UserPrompt)
	classification := classifier.Classify(prompt)

	cs.logger.Info("CHAT", "Query classified", map[string]interface{}{
		"query_type":   classification.QueryType,
		"is_sensitive": classification.IsSensitive,
		"rag_first":    classification.ShouldTryRag,
		"confidence":   classification.Confidence,
	})

	var response *dto.GenerateResponse
	switch {
	case classification.IsSensitive && !classification.ShouldTryRag:
		response = cs.sensitiveResponse(request, classification)
	case classification.ShouldTryRag:
		response = cs.ragFirstResponse(ctx, request, classification)
	default:
		response = cs.directRetrievalResponse(ctx, request, classification)
	}

	cs.publishConversation(request, response)
	return response
}

// sensitiveResponse answers from the canned escalation templates without
// any provider call.
func (cs *chatService) sensitiveResponse(request *dto.GenerateRequest, classification classifier.Result) *dto.GenerateResponse {
	answer := escalationResponse(classification.Categories)

	return &dto.GenerateResponse{
		Answer:         answer,
		SummaryAnswer:  answer,
		UpdatedHistory: appendHistory(request.ConversationHistory, request.UserPrompt, answer),
		Metadata: dto.ResponseMetadata{
			EngineType:          constant.EngineSensitiveQueryHandler,
			SensitiveDetected:   true,
			SensitiveCategories: classification.Categories,
			Confidence:          classification.Confidence,
			QueryType:           classification.QueryType,
		},
		QualityCheck: dto.QualityCheckDTO{
			HasAnswer:      true,
			SensitiveQuery: true,
		},
		ConsultantNeeded: true,
	}
}

// ragFirstResponse tries one retrieval-augmented answer and keeps it only
// when it is substantive; otherwise it escalates with a canned response.
// Provider errors escalate too, never surfacing to the end user.
func (cs *chatService) ragFirstResponse(ctx context.Context, request *dto.GenerateRequest, classification classifier.Result) *dto.GenerateResponse {
	generated, err := cs.engine.GenerateAnswer(ctx, request.UserPrompt)
	if err != nil {
		cs.logger.Error("CHAT", "Retrieval-first attempt failed, escalating", map[string]interface{}{
			"error": err.Error(),
		})
		return cs.escalationFallback(request, classification, constant.CategoryRagError, constant.EngineRagErrorConsultant)
	}

	if len([]rune(strings.TrimSpace(generated.AnswerText))) <= minSufficientAnswerLength {
		cs.logger.Warn("CHAT", "Retrieval-first answer too short, escalating", map[string]interface{}{
			"answer_length": len(generated.AnswerText),
		})
		return cs.escalationFallback(request, classification, constant.CategoryRagInsufficient, constant.EngineRagFallbackConsultant)
	}

	cs.rememberSession(request.SessionId, generated)
	return &dto.GenerateResponse{
		Answer:           generated.AnswerText,
		SummaryAnswer:    generated.AnswerText,
		Citations:        toCitationDTOs(generated.Citations),
		SearchResults:    toSearchResultDTOs(generated.SearchResults),
		RelatedQuestions: generated.RelatedQuestions,
		UpdatedHistory:   appendHistory(request.ConversationHistory, request.UserPrompt, generated.AnswerText),
		Metadata: dto.ResponseMetadata{
			EngineType: constant.EngineDiscoveryMain,
			QueryId:    generated.QueryID,
			SessionId:  generated.SessionID,
			QueryType:  classification.QueryType,
			Confidence: classification.Confidence,
		},
		QualityCheck: dto.QualityCheckDTO{
			HasAnswer:        true,
			DiscoverySuccess: true,
		},
	}
}

// directRetrievalResponse runs the fact store and the retrieval engine in
// parallel and feeds both into the synthesizer. A fact-store outage
// degrades to retrieval-only instead of failing the request.
func (cs *chatService) directRetrievalResponse(ctx context.Context, request *dto.GenerateRequest, classification classifier.Result) *dto.GenerateResponse {
	searchPrompt := strings.Join(cs.normalizer.SearchTerms(request.UserPrompt), " ")

	var (
		factAnswer      *rag.GeneratedAnswer
		retrievalAnswer *rag.GeneratedAnswer
		triplesFound    bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		triples, err := cs.factStore.QueryByText(gctx, searchPrompt)
		if err != nil {
			cs.logger.Warn("CHAT", "Fact store unavailable, continuing without triples", map[string]interface{}{
				"error": err.Error(),
			})
			return nil
		}
		if len(triples) == 0 {
			return nil
		}
		triplesFound = true
		answer, err := cs.engine.TripleGroundedAnswer(gctx, request.UserPrompt, triples)
		if err != nil {
			cs.logger.Warn("CHAT", "Fact-grounded answer failed", map[string]interface{}{
				"error": err.Error(),
			})
			return nil
		}
		factAnswer = answer
		return nil
	})
	g.Go(func() error {
		answer, err := cs.engine.GenerateAnswer(gctx, request.UserPrompt)
		if err != nil {
			return err
		}
		retrievalAnswer = answer
		return nil
	})

	if err := g.Wait(); err != nil {
		if factAnswer == nil {
			cs.logger.Error("CHAT", "All answer flows failed", map[string]interface{}{
				"error": err.Error(),
			})
			return cs.errorFallback(request, classification)
		}
		cs.logger.Warn("CHAT", "Retrieval flow failed, using fact-grounded answer only", map[string]interface{}{
			"error": err.Error(),
		})
	}

	final := cs.synthesizer.Synthesize(ctx, request.UserPrompt, factAnswer, retrievalAnswer)
	answer := final.Answer

	engineType := constant.EngineDiscoveryMain
	if triplesFound {
		engineType = constant.EngineGraphGrounded
	}
	cs.rememberSession(request.SessionId, answer)

	return &dto.GenerateResponse{
		Answer:           answer.AnswerText,
		SummaryAnswer:    answer.AnswerText,
		Citations:        toCitationDTOs(answer.Citations),
		SearchResults:    toSearchResultDTOs(answer.SearchResults),
		RelatedQuestions: answer.RelatedQuestions,
		UpdatedHistory:   appendHistory(request.ConversationHistory, request.UserPrompt, answer.AnswerText),
		Metadata: dto.ResponseMetadata{
			EngineType: engineType,
			QueryId:    answer.QueryID,
			SessionId:  answer.SessionID,
			QueryType:  classification.QueryType,
			Confidence: classification.Confidence,
		},
		QualityCheck: dto.QualityCheckDTO{
			HasAnswer:        true,
			DiscoverySuccess: retrievalAnswer != nil,
			RelevancePassed:  final.QualityCheck.RelevancePassed,
			TriplesFound:     final.QualityCheck.TriplesFound,
		},
	}
}

// escalationFallback shapes a canned consultant-handoff response for a
// failed or insufficient retrieval-first attempt.
func (cs *chatService) escalationFallback(request *dto.GenerateRequest, classification classifier.Result, category, engineType string) *dto.GenerateResponse {
	categories := append([]string{category}, classification.Categories...)
	answer := escalationResponse(categories)

	return &dto.GenerateResponse{
		Answer:         answer,
		SummaryAnswer:  answer,
		UpdatedHistory: appendHistory(request.ConversationHistory, request.UserPrompt, answer),
		Metadata: dto.ResponseMetadata{
			EngineType:          engineType,
			SensitiveCategories: categories,
			QueryType:           classification.QueryType,
			Confidence:          classification.Confidence,
		},
		QualityCheck: dto.QualityCheckDTO{
			HasAnswer: true,
		},
		ConsultantNeeded: true,
	}
}

// errorFallback is the terminal catch-all: a fixed apology, reported as a
// successful response with an error flag.
func (cs *chatService) errorFallback(request *dto.GenerateRequest, classification classifier.Result) *dto.GenerateResponse {
	return &dto.GenerateResponse{
		Answer:         constant.GenericErrorResponse,
		SummaryAnswer:  constant.GenericErrorResponse,
		UpdatedHistory: appendHistory(request.ConversationHistory, request.UserPrompt, constant.GenericErrorResponse),
		Metadata: dto.ResponseMetadata{
			EngineType: constant.EngineErrorFallback,
			QueryType:  classification.QueryType,
			Error:      true,
		},
		QualityCheck: dto.QualityCheckDTO{
			HasAnswer: true,
		},
	}
}

// DiscoveryAnswer is the raw answer endpoint: no classification, no fact
// grounding. When the caller's session id maps to a stored provider
// session, the follow-up threads into it instead of opening a new one.
func (cs *chatService) DiscoveryAnswer(ctx context.Context, request *dto.DiscoveryAnswerRequest) (*dto.DiscoveryAnswerResponse, error) {
	query := discovery.TruncateQuery(request.Query, discovery.MaxQueryLength)

	generated, err := cs.answerThreaded(ctx, query, request.SessionId)
	if err != nil {
		return nil, err
	}
	cs.rememberSession(request.SessionId, generated)

	return &dto.DiscoveryAnswerResponse{
		Answer:           generated.AnswerText,
		Citations:        toCitationDTOs(generated.Citations),
		RelatedQuestions: generated.RelatedQuestions,
		Metadata: dto.ResponseMetadata{
			EngineType: constant.EngineDiscoveryAnswer,
			QueryId:    generated.QueryID,
			SessionId:  generated.SessionID,
		},
	}, nil
}

// answerThreaded reuses the stored provider session for the caller's
// session id when one exists; a failed threaded call falls back to a
// fresh session rather than failing the request.
func (cs *chatService) answerThreaded(ctx context.Context, query, frontendSessionId string) (*rag.GeneratedAnswer, error) {
	key := strings.TrimSpace(frontendSessionId)
	if key != "" {
		if stored, found := cs.sessionRepo.Get(key); found {
			generated, err := cs.engine.AnswerInSession(ctx, query, stored.QueryId, stored.Name)
			if err == nil {
				return generated, nil
			}
			cs.logger.Warn("CHAT", "Threaded answer failed, opening a new session", map[string]interface{}{
				"session_id": key,
				"error":      err.Error(),
			})
			cs.sessionRepo.Delete(key)
		}
	}
	return cs.engine.GenerateAnswer(ctx, query)
}

// rememberSession keeps the provider session for follow-up threading,
// keyed by the frontend session id when present.
func (cs *chatService) rememberSession(frontendSessionId string, answer *rag.GeneratedAnswer) {
	if answer == nil || answer.SessionID == "" {
		return
	}
	key := strings.TrimSpace(frontendSessionId)
	if key == "" {
		key = ShortSessionId(answer.SessionID)
	}
	cs.sessionRepo.Save(key, &memory.ProviderSession{
		Name:    answer.SessionID,
		QueryId: answer.QueryID,
	})
}

// publishConversation emits both turns of the exchange for async
// persistence. Failures are logged and never affect the response.
func (cs *chatService) publishConversation(request *dto.GenerateRequest, response *dto.GenerateResponse) {
	if cs.pubSub == nil {
		return
	}

	sessionId := strings.TrimSpace(request.SessionId)
	if sessionId == "" {
		sessionId = ShortSessionId(response.Metadata.SessionId)
	}

	turns := []dto.PublishConversationMessage{
		{
			SessionId: sessionId,
			Role:      constant.ChatMessageRoleUser,
			Content:   request.UserPrompt,
			QueryType: response.Metadata.QueryType,
		},
		{
			SessionId: sessionId,
			Role:      constant.ChatMessageRoleModel,
			Content:   response.Answer,
			QueryType: response.Metadata.QueryType,
			Engine:    response.Metadata.EngineType,
		},
	}

	for _, turn := range turns {
		payload, err := json.Marshal(turn)
		if err != nil {
			continue
		}
		msg := message.NewMessage(watermill.NewUUID(), payload)
		if err := cs.pubSub.Publish(cs.topicName, msg); err != nil {
			cs.logger.Warn("CHAT", "Conversation publish failed", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
	}
}

// escalationResponse maps escalation categories onto the canned template
// set. Category precedence mirrors how specific the handoff reason is.
func escalationResponse(categories []string) string {
	has := func(targets ...string) bool {
		for _, c := range categories {
			for _, t := range targets {
				if c == t {
					return true
				}
			}
		}
		return false
	}

	switch {
	case has(classifier.CategoryConsultant, classifier.TypeConsultant):
		return constant.ConsultantEscalationResponse
	case has(classifier.CategorySpecificPrice):
		return constant.SpecificPriceEscalationResponse
	case has(classifier.CategoryDiscount):
		return constant.DiscountEscalationResponse
	case has(classifier.CategoryContract):
		return constant.ContractEscalationResponse
	case has(classifier.CategoryPrivacy):
		return constant.PrivacyEscalationResponse
	case has(classifier.TypeGeneralPlanInfo, constant.CategoryRagInsufficient):
		return constant.PlanInfoEscalationResponse
	case has(constant.CategoryRagError):
		return constant.RagErrorEscalationResponse
	default:
		return constant.DefaultEscalationResponse
	}
}

// appendHistory returns the conversation history extended with the new
// user/model exchange.
func appendHistory(history []dto.HistoryTurn, userPrompt, answer string) []dto.HistoryTurn {
	updated := make([]dto.HistoryTurn, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated,
		dto.HistoryTurn{Role: constant.ChatMessageRoleUser, Parts: []dto.HistoryPart{{Text: userPrompt}}},
		dto.HistoryTurn{Role: constant.ChatMessageRoleModel, Parts: []dto.HistoryPart{{Text: answer}}},
	)
	return updated
}

// ShortSessionId compresses a provider session resource name into a
// storage-friendly id.
func ShortSessionId(providerSession string) string {
	trimmed := strings.TrimSpace(providerSession)
	if trimmed == "" {
		return fmt.Sprintf("session_%d", time.Now().Unix())
	}

	parts := strings.Split(trimmed, "/")
	short := "session_" + parts[len(parts)-1]
	if len(short) > 50 {
		sum := md5.Sum([]byte(trimmed))
		short = "session_" + hex.EncodeToString(sum[:])[:16]
	}
	return short
}

func toCitationDTOs(citations []discovery.Citation) []dto.CitationDTO {
	out := make([]dto.CitationDTO, 0, len(citations))
	for _, c := range citations {
		out = append(out, dto.CitationDTO{Title: c.Title, URI: c.URI})
	}
	return out
}

func toSearchResultDTOs(results []discovery.SearchResult) []dto.SearchResultDTO {
	out := make([]dto.SearchResultDTO, 0, len(results))
	for _, r := range results {
		item := dto.SearchResultDTO{
			Title: r.Document.DerivedStructData.Title,
			Link:  r.Document.DerivedStructData.Link,
		}
		for _, sn := range r.Document.DerivedStructData.Snippets {
			if sn.SnippetStatus != "" && sn.SnippetStatus != "SUCCESS" {
				continue
			}
			if sn.Snippet != "" {
				item.Snippets = append(item.Snippets, sn.Snippet)
			}
		}
		out = append(out, item)
	}
	return out
}
