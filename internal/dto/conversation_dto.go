package dto

import (
	"time"

	"github.com/google/uuid"
)

type ConversationMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	QueryType string    `json:"query_type,omitempty"`
	Engine    string    `json:"engine,omitempty"`
	Quality   *int      `json:"quality,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationHistoryResponse struct {
	SessionId string                        `json:"session_id"`
	Messages  []ConversationMessageResponse `json:"messages"`
}

type SessionSummaryResponse struct {
	SessionId     string     `json:"session_id"`
	MessageCount  int        `json:"message_count"`
	UserTurns     int        `json:"user_turns"`
	ModelTurns    int        `json:"model_turns"`
	FirstMessage  *time.Time `json:"first_message,omitempty"`
	LastMessage   *time.Time `json:"last_message,omitempty"`
	EnginesUsed   []string   `json:"engines_used"`
	QueryTypes    []string   `json:"query_types"`
	AvgQuality    *float64   `json:"avg_quality,omitempty"`
	RatedMessages int        `json:"rated_messages"`
}

type AnalyticsResponse struct {
	Since        time.Time `json:"since"`
	SessionCount int64     `json:"session_count"`
	MessageCount int64     `json:"message_count"`
	RatedCount   int64     `json:"rated_count"`
	AvgQuality   *float64  `json:"avg_quality,omitempty"`
}

type CleanupSessionsRequest struct {
	OlderThanDays int `json:"older_than_days" validate:"required,min=1"`
}

type CleanupSessionsResponse struct {
	DeletedMessages int64 `json:"deleted_messages"`
}

// PublishConversationMessage is the async persistence payload published
// after each answered request and consumed by the conversation worker.
type PublishConversationMessage struct {
	SessionId string `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	QueryType string `json:"query_type,omitempty"`
	Engine    string `json:"engine,omitempty"`
}

type UpdateMessageQualityRequest struct {
	MessageId uuid.UUID `json:"message_id" validate:"required"`
	Quality   int       `json:"quality" validate:"required,min=1,max=5"`
}
