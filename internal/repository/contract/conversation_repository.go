package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"graphrag-chatbot-be/internal/model"
)

// SessionAnalytics aggregates conversation volume over a window.
type SessionAnalytics struct {
	SessionCount int64
	MessageCount int64
	RatedCount   int64
	AvgQuality   float64
}

type ConversationRepository interface {
	Append(ctx context.Context, message *model.ConversationMessage) error
	FindBySession(ctx context.Context, sessionId string) ([]model.ConversationMessage, error)
	UpdateQuality(ctx context.Context, messageId uuid.UUID, quality int) error
	Analytics(ctx context.Context, since time.Time) (*SessionAnalytics, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
