package service

import (
	"context"
	"testing"
	"time"

	"graphrag-chatbot-be/internal/dto"
	"graphrag-chatbot-be/internal/model"
	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeConversationRepo struct {
	messages  []model.ConversationMessage
	analytics *contract.SessionAnalytics
	deleted   int64
	updated   map[uuid.UUID]int
}

func (f *fakeConversationRepo) Append(_ context.Context, message *model.ConversationMessage) error {
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeConversationRepo) FindBySession(_ context.Context, sessionId string) ([]model.ConversationMessage, error) {
	var out []model.ConversationMessage
	for _, m := range f.messages {
		if m.SessionId == sessionId {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeConversationRepo) UpdateQuality(_ context.Context, messageId uuid.UUID, quality int) error {
	for _, m := range f.messages {
		if m.Id == messageId {
			if f.updated == nil {
				f.updated = map[uuid.UUID]int{}
			}
			f.updated[messageId] = quality
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeConversationRepo) Analytics(_ context.Context, _ time.Time) (*contract.SessionAnalytics, error) {
	return f.analytics, nil
}

func (f *fakeConversationRepo) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return f.deleted, nil
}

func quality(v int) *int { return &v }

func sessionFixture() *fakeConversationRepo {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &fakeConversationRepo{
		messages: []model.ConversationMessage{
			{Id: uuid.New(), SessionId: "s1", Role: "user", Content: "질문", QueryType: "general", CreatedAt: base},
			{Id: uuid.New(), SessionId: "s1", Role: "model", Content: "답변", Engine: "discovery_engine_main", Quality: quality(4), CreatedAt: base.Add(time.Minute)},
			{Id: uuid.New(), SessionId: "s1", Role: "user", Content: "추가 질문", QueryType: "general_plan_info", CreatedAt: base.Add(2 * time.Minute)},
			{Id: uuid.New(), SessionId: "s1", Role: "model", Content: "추가 답변", Engine: "graph_grounded", Quality: quality(5), CreatedAt: base.Add(3 * time.Minute)},
			{Id: uuid.New(), SessionId: "other", Role: "user", Content: "다른 세션", CreatedAt: base},
		},
	}
}

func TestGetHistoryFiltersBySession(t *testing.T) {
	service := NewConversationService(sessionFixture(), logger.Nop())

	res, err := service.GetHistory(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", res.SessionId)
	assert.Len(t, res.Messages, 4)
}

func TestGetSessionSummary(t *testing.T) {
	service := NewConversationService(sessionFixture(), logger.Nop())

	res, err := service.GetSessionSummary(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, 4, res.MessageCount)
	assert.Equal(t, 2, res.UserTurns)
	assert.Equal(t, 2, res.ModelTurns)
	assert.Equal(t, []string{"discovery_engine_main", "graph_grounded"}, res.EnginesUsed)
	assert.Equal(t, []string{"general", "general_plan_info"}, res.QueryTypes)
	assert.Equal(t, 2, res.RatedMessages)
	require.NotNil(t, res.AvgQuality)
	assert.InDelta(t, 4.5, *res.AvgQuality, 0.001)
	require.NotNil(t, res.FirstMessage)
	require.NotNil(t, res.LastMessage)
	assert.True(t, res.LastMessage.After(*res.FirstMessage))
}

func TestGetSessionSummaryEmpty(t *testing.T) {
	service := NewConversationService(&fakeConversationRepo{}, logger.Nop())

	res, err := service.GetSessionSummary(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, res.MessageCount)
	assert.Nil(t, res.AvgQuality)
	assert.Empty(t, res.EnginesUsed)
}

func TestGetAnalytics(t *testing.T) {
	repo := &fakeConversationRepo{
		analytics: &contract.SessionAnalytics{
			SessionCount: 3,
			MessageCount: 12,
			RatedCount:   5,
			AvgQuality:   4.2,
		},
	}
	service := NewConversationService(repo, logger.Nop())

	res, err := service.GetAnalytics(context.Background(), time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.SessionCount)
	require.NotNil(t, res.AvgQuality)
	assert.InDelta(t, 4.2, *res.AvgQuality, 0.001)
}

func TestCleanupOldSessions(t *testing.T) {
	repo := &fakeConversationRepo{deleted: 42}
	service := NewConversationService(repo, logger.Nop())

	res, err := service.CleanupOldSessions(context.Background(), &dto.CleanupSessionsRequest{OlderThanDays: 30})
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.DeletedMessages)
}

func TestUpdateMessageQualityUnknownId(t *testing.T) {
	service := NewConversationService(sessionFixture(), logger.Nop())

	err := service.UpdateMessageQuality(context.Background(), &dto.UpdateMessageQualityRequest{
		MessageId: uuid.New(),
		Quality:   5,
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
