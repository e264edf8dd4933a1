package model

import (
	"time"

	"github.com/google/uuid"
)

// ConversationMessage is one persisted turn of a support conversation.
// SessionId is the client-facing session identifier, not a FK.
type ConversationMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId string    `gorm:"type:varchar(128);not null;index"`
	Role      string    `gorm:"type:varchar(16);not null"` // user | model
	Content   string    `gorm:"type:text;not null"`
	QueryType string    `gorm:"type:varchar(64)"`
	Engine    string    `gorm:"type:varchar(64)"`
	// Quality is the user rating 1-5; null until rated.
	Quality   *int      `gorm:"type:smallint"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (ConversationMessage) TableName() string {
	return "conversation_messages"
}
