package service

import (
	"context"
	"sort"
	"time"

	"graphrag-chatbot-be/internal/constant"
	"graphrag-chatbot-be/internal/dto"
	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/internal/repository/contract"
)

type IConversationService interface {
	GetHistory(ctx context.Context, sessionId string) (*dto.ConversationHistoryResponse, error)
	GetSessionSummary(ctx context.Context, sessionId string) (*dto.SessionSummaryResponse, error)
	GetAnalytics(ctx context.Context, since time.Time) (*dto.AnalyticsResponse, error)
	CleanupOldSessions(ctx context.Context, request *dto.CleanupSessionsRequest) (*dto.CleanupSessionsResponse, error)
	UpdateMessageQuality(ctx context.Context, request *dto.UpdateMessageQualityRequest) error
}

type conversationService struct {
	repo   contract.ConversationRepository
	logger logger.ILogger
}

func NewConversationService(repo contract.ConversationRepository, log logger.ILogger) IConversationService {
	return &conversationService{repo: repo, logger: log}
}

func (s *conversationService) GetHistory(ctx context.Context, sessionId string) (*dto.ConversationHistoryResponse, error) {
	messages, err := s.repo.FindBySession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	response := &dto.ConversationHistoryResponse{
		SessionId: sessionId,
		Messages:  make([]dto.ConversationMessageResponse, 0, len(messages)),
	}
	for _, m := range messages {
		response.Messages = append(response.Messages, dto.ConversationMessageResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			QueryType: m.QueryType,
			Engine:    m.Engine,
			Quality:   m.Quality,
			CreatedAt: m.CreatedAt,
		})
	}
	return response, nil
}

func (s *conversationService) GetSessionSummary(ctx context.Context, sessionId string) (*dto.SessionSummaryResponse, error) {
	messages, err := s.repo.FindBySession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	summary := &dto.SessionSummaryResponse{
		SessionId:    sessionId,
		MessageCount: len(messages),
	}
	if len(messages) == 0 {
		summary.EnginesUsed = []string{}
		summary.QueryTypes = []string{}
		return summary, nil
	}

	engines := map[string]struct{}{}
	queryTypes := map[string]struct{}{}
	qualitySum, qualityCount := 0, 0

	for i, m := range messages {
		switch m.Role {
		case constant.ChatMessageRoleUser:
			summary.UserTurns++
		case constant.ChatMessageRoleModel:
			summary.ModelTurns++
		}
		if m.Engine != "" {
			engines[m.Engine] = struct{}{}
		}
		if m.QueryType != "" {
			queryTypes[m.QueryType] = struct{}{}
		}
		if m.Quality != nil {
			qualitySum += *m.Quality
			qualityCount++
		}
		if i == 0 {
			first := m.CreatedAt
			summary.FirstMessage = &first
		}
		if i == len(messages)-1 {
			last := m.CreatedAt
			summary.LastMessage = &last
		}
	}

	summary.EnginesUsed = sortedKeys(engines)
	summary.QueryTypes = sortedKeys(queryTypes)
	summary.RatedMessages = qualityCount
	if qualityCount > 0 {
		avg := float64(qualitySum) / float64(qualityCount)
		summary.AvgQuality = &avg
	}
	return summary, nil
}

func (s *conversationService) GetAnalytics(ctx context.Context, since time.Time) (*dto.AnalyticsResponse, error) {
	analytics, err := s.repo.Analytics(ctx, since)
	if err != nil {
		return nil, err
	}
	response := &dto.AnalyticsResponse{
		Since:        since,
		SessionCount: analytics.SessionCount,
		MessageCount: analytics.MessageCount,
		RatedCount:   analytics.RatedCount,
	}
	if analytics.RatedCount > 0 {
		avg := analytics.AvgQuality
		response.AvgQuality = &avg
	}
	return response, nil
}

func (s *conversationService) CleanupOldSessions(ctx context.Context, request *dto.CleanupSessionsRequest) (*dto.CleanupSessionsResponse, error) {
	cutoff := time.Now().AddDate(0, 0, -request.OlderThanDays)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	s.logger.Info("CONVERSATION", "Old sessions cleaned up", map[string]interface{}{
		"cutoff":  cutoff.Format(time.RFC3339),
		"deleted": deleted,
	})
	return &dto.CleanupSessionsResponse{DeletedMessages: deleted}, nil
}

func (s *conversationService) UpdateMessageQuality(ctx context.Context, request *dto.UpdateMessageQualityRequest) error {
	return s.repo.UpdateQuality(ctx, request.MessageId, request.Quality)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
