package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"graphrag-chatbot-be/internal/dto"
	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/pkg/events"
	pkgNats "graphrag-chatbot-be/pkg/nats"
	"graphrag-chatbot-be/pkg/resilience"

	"github.com/google/uuid"
)

const (
	maxEscalationHistoryTurns = 10
	maxEscalationTextLength   = 200
)

type IConsultantService interface {
	RequestConsultation(ctx context.Context, request *dto.RequestConsultantRequest) (*dto.RequestConsultantResponse, error)
}

type consultantService struct {
	webhookURL string
	httpClient *http.Client
	retry      resilience.RetryConfig
	publisher  *pkgNats.Publisher
	logger     logger.ILogger
}

func NewConsultantService(webhookURL string, publisher *pkgNats.Publisher, log logger.ILogger) IConsultantService {
	return &consultantService{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry:      resilience.DefaultRetryConfig(),
		publisher:  publisher,
		logger:     log,
	}
}

// RequestConsultation packages the conversation context into a chat-room
// card and delivers it to the human-facing webhook. The operations event
// is best-effort; webhook delivery failure is returned to the caller.
func (s *consultantService) RequestConsultation(ctx context.Context, request *dto.RequestConsultantRequest) (*dto.RequestConsultantResponse, error) {
	if s.webhookURL == "" {
		s.logger.Error("CONSULTANT", "Webhook URL not configured", nil)
		return &dto.RequestConsultantResponse{
			Success: false,
			Message: "상담 요청 전송에 실패했습니다",
		}, nil
	}

	consultationId := request.SessionId
	if strings.TrimSpace(consultationId) == "" {
		consultationId = "session_" + uuid.NewString()
	}

	payload := s.buildChatPayload(request, consultationId)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chat payload: %w", err)
	}

	err = resilience.Retry(ctx, s.retry, s.logger, "consultant.webhook", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return resilience.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("webhook returned status %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return resilience.Permanent(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Error("CONSULTANT", "Webhook delivery failed", map[string]interface{}{
			"error": err.Error(),
		})
		return &dto.RequestConsultantResponse{
			Success:        false,
			ConsultationId: consultationId,
			Message:        "상담 요청 전송에 실패했습니다",
		}, nil
	}

	s.publishRequested(ctx, consultationId, request.Categories)

	s.logger.Info("CONSULTANT", "Consultation request delivered", map[string]interface{}{
		"consultation_id": consultationId,
		"categories":      request.Categories,
	})
	return &dto.RequestConsultantResponse{
		Success:        true,
		ConsultationId: consultationId,
		Message:        "상담 요청이 전송되었습니다",
	}, nil
}

// buildChatPayload renders the webhook card: headline text with the recent
// conversation, plus key/value widgets for triage.
func (s *consultantService) buildChatPayload(request *dto.RequestConsultantRequest, consultationId string) map[string]interface{} {
	return map[string]interface{}{
		"text": "🔔 *새로운 상담 요청*\n\n" + formatConversation(request.UserQuery, request.ConversationHistory),
		"cards": []map[string]interface{}{{
			"sections": []map[string]interface{}{{
				"widgets": []map[string]interface{}{
					{"keyValue": map[string]interface{}{
						"topLabel": "요청 시간",
						"content":  time.Now().Format(time.RFC3339),
					}},
					{"keyValue": map[string]interface{}{
						"topLabel": "세션 ID",
						"content":  consultationId,
					}},
					{"keyValue": map[string]interface{}{
						"topLabel": "민감한 카테고리",
						"content":  strings.Join(request.Categories, ", "),
					}},
				},
			}},
		}},
	}
}

func (s *consultantService) publishRequested(ctx context.Context, consultationId string, categories []string) {
	if s.publisher == nil {
		return
	}
	event := events.BaseEvent{
		Type: "CONSULTATION_REQUESTED",
		Data: map[string]interface{}{
			"consultation_id": consultationId,
			"categories":      categories,
		},
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("CONSULTANT", "Operations event publish failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// formatConversation renders the latest question plus the recent turns,
// truncating long messages.
func formatConversation(userQuery string, history []dto.HistoryTurn) string {
	var b strings.Builder
	b.WriteString("*최근 질문:* " + userQuery + "\n\n")

	if len(history) == 0 {
		return b.String()
	}
	b.WriteString("*대화 내역:*\n")

	recent := history
	if len(recent) > maxEscalationHistoryTurns {
		recent = recent[len(recent)-maxEscalationHistoryTurns:]
	}
	for _, turn := range recent {
		role := "🤖 AI"
		if turn.Role == "user" {
			role = "👤 사용자"
		}
		content := ""
		if len(turn.Parts) > 0 {
			content = turn.Parts[0].Text
		}
		if runes := []rune(content); len(runes) > maxEscalationTextLength {
			content = string(runes[:maxEscalationTextLength]) + "..."
		}
		b.WriteString("\n" + role + ": " + content + "\n")
	}
	return b.String()
}
