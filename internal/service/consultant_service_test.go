package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"graphrag-chatbot-be/internal/dto"
	"graphrag-chatbot-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestConsultationDeliversCard(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	service := NewConsultantService(server.URL, nil, logger.Nop())
	res, err := service.RequestConsultation(context.Background(), &dto.RequestConsultantRequest{
		UserQuery: "계약 조건을 알려주세요",
		SessionId: "session_abc",
		ConversationHistory: []dto.HistoryTurn{
			{Role: "user", Parts: []dto.HistoryPart{{Text: "이전 질문"}}},
			{Role: "model", Parts: []dto.HistoryPart{{Text: "이전 답변"}}},
		},
		Categories: []string{"contract"},
	})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "session_abc", res.ConsultationId)

	text, _ := received["text"].(string)
	assert.Contains(t, text, "새로운 상담 요청")
	assert.Contains(t, text, "계약 조건을 알려주세요")
	assert.Contains(t, text, "이전 질문")
	require.NotNil(t, received["cards"])
}

func TestRequestConsultationWebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	service := NewConsultantService(server.URL, nil, logger.Nop())
	res, err := service.RequestConsultation(context.Background(), &dto.RequestConsultantRequest{
		UserQuery: "질문",
	})

	require.NoError(t, err, "delivery failure is reported in the body, not as an error")
	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.ConsultationId, "session_"))
}

func TestRequestConsultationMissingWebhook(t *testing.T) {
	service := NewConsultantService("", nil, logger.Nop())
	res, err := service.RequestConsultation(context.Background(), &dto.RequestConsultantRequest{
		UserQuery: "질문",
	})

	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestFormatConversationTruncatesLongTurns(t *testing.T) {
	long := strings.Repeat("가", 300)
	text := formatConversation("질문", []dto.HistoryTurn{
		{Role: "user", Parts: []dto.HistoryPart{{Text: long}}},
	})

	assert.Contains(t, text, "...")
	assert.Less(t, len([]rune(text)), 300)
}

func TestFormatConversationKeepsRecentTurnsOnly(t *testing.T) {
	var history []dto.HistoryTurn
	for i := 0; i < 15; i++ {
		history = append(history, dto.HistoryTurn{
			Role:  "user",
			Parts: []dto.HistoryPart{{Text: "turn"}},
		})
	}

	text := formatConversation("질문", history)
	assert.Equal(t, maxEscalationHistoryTurns, strings.Count(text, "👤"))
}
