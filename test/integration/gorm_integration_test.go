package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"graphrag-chatbot-be/internal/model"
	"graphrag-chatbot-be/internal/repository/implementation"
	"graphrag-chatbot-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	require.NoError(t, err)

	tripleRepo := implementation.NewTripleRepository(gormDB)
	conversationRepo := implementation.NewConversationRepository(gormDB)
	ctx := context.Background()

	t.Run("Check Triple Repository", func(t *testing.T) {
		// Table access implies schema is migrated
		triples, err := tripleRepo.SearchByKeywords(ctx, []string{"integration-probe"}, 5)
		assert.NoError(t, err)
		t.Logf("Matched triples: %d", len(triples))
	})

	t.Run("Conversation Round Trip", func(t *testing.T) {
		sessionId := "integration-" + uuid.New().String()

		userTurn := &model.ConversationMessage{
			Id:        uuid.New(),
			SessionId: sessionId,
			Role:      "user",
			Content:   "통합 테스트 질문",
			QueryType: "general",
		}
		modelTurn := &model.ConversationMessage{
			Id:        uuid.New(),
			SessionId: sessionId,
			Role:      "model",
			Content:   "통합 테스트 답변",
			Engine:    "discovery_engine_main",
		}

		require.NoError(t, conversationRepo.Append(ctx, userTurn))
		require.NoError(t, conversationRepo.Append(ctx, modelTurn))

		messages, err := conversationRepo.FindBySession(ctx, sessionId)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, "user", messages[0].Role)
		assert.Equal(t, "model", messages[1].Role)

		err = conversationRepo.UpdateQuality(ctx, modelTurn.Id, 5)
		assert.NoError(t, err)

		analytics, err := conversationRepo.Analytics(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, analytics.MessageCount, int64(2))
		assert.GreaterOrEqual(t, analytics.RatedCount, int64(1))

		// Cleanup: the fixture rows are newer than the cutoff and must survive
		deleted, err := conversationRepo.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
		assert.NoError(t, err)
		t.Logf("Deleted %d stale messages", deleted)

		remaining, err := conversationRepo.FindBySession(ctx, sessionId)
		require.NoError(t, err)
		assert.Len(t, remaining, 2)
	})
}
