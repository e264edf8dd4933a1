package service

import (
	"context"
	"encoding/json"

	"graphrag-chatbot-be/internal/dto"
	"graphrag-chatbot-be/internal/model"
	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the conversation topic and persists each turn.
// Persistence failures Nack for redelivery; malformed payloads Ack so
// they don't loop forever.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	repo      contract.ConversationRepository
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	repo contract.ConversationRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		repo:      repo,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishConversationMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal conversation message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	record := &model.ConversationMessage{
		Id:        uuid.New(),
		SessionId: payload.SessionId,
		Role:      payload.Role,
		Content:   payload.Content,
		QueryType: payload.QueryType,
		Engine:    payload.Engine,
	}

	if err := cs.repo.Append(ctx, record); err != nil {
		cs.logger.Error("CONSUMER", "Failed to persist conversation message", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Debug("CONSUMER", "Conversation message persisted", map[string]interface{}{
		"session_id": payload.SessionId,
		"role":       payload.Role,
	})
	msg.Ack()
}
