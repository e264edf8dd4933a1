package bootstrap

import (
	"context"
	"log"

	"graphrag-chatbot-be/internal/config"
	"graphrag-chatbot-be/internal/constant"
	"graphrag-chatbot-be/internal/controller"
	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/internal/pkg/mailer"
	"graphrag-chatbot-be/internal/repository/implementation"
	"graphrag-chatbot-be/internal/repository/memory"
	"graphrag-chatbot-be/internal/service"
	"graphrag-chatbot-be/pkg/cache"
	"graphrag-chatbot-be/pkg/discovery"
	"graphrag-chatbot-be/pkg/events"
	"graphrag-chatbot-be/pkg/facts"
	"graphrag-chatbot-be/pkg/rag"
	"graphrag-chatbot-be/pkg/rag/synthesis"
	"graphrag-chatbot-be/pkg/textnorm"

	pkgNats "graphrag-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const memoryCacheSize = 1000

type Container struct {
	// Controllers
	ChatController         controller.IChatController
	ConsultationController controller.IConsultationController
	ConversationController controller.IConversationController
	HealthController       controller.IHealthController
	OpsController          controller.IOpsController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Durable audit trail for escalations. Optional, like the publisher.
	if natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL); err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		err := natsSub.Subscribe("events.CONSULTATION_REQUESTED", "consultation-audit", func(_ context.Context, event events.Event) error {
			sysLogger.Info("CONSULTATION", "Consultation event received", event.Payload())
			return nil
		})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to consultation events: %v", err)
		}
	}

	// 3. Cache: Redis when configured, bounded in-memory otherwise.
	var cacheStore cache.Store
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		cacheStore = cache.NewRedisStore(rdb, cache.DefaultTTL, sysLogger)
	} else {
		cacheStore = cache.NewMemoryStore(memoryCacheSize, cache.DefaultTTL)
	}

	// 4. Search provider and answer engine
	discoveryConfig := discovery.DefaultConfig()
	discoveryConfig.ProjectID = cfg.Discovery.ProjectID
	discoveryConfig.Location = cfg.Discovery.Location
	discoveryConfig.EngineID = cfg.Discovery.EngineID
	discoveryConfig.ModelVersion = cfg.Discovery.ModelVersion
	discoveryConfig.PreamblePath = cfg.Discovery.SystemPromptPath
	discoveryConfig.Preamble = constant.DefaultAnswerPreamble

	tokens := discovery.NewTokenSource(cfg.Discovery.AccessToken, nil)
	discoveryClient, err := discovery.NewClient(discoveryConfig, tokens, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize discovery client: %v", err)
	}

	engine := rag.NewEngine(discoveryClient, cacheStore, rag.DefaultConfig(), sysLogger)
	synthesizer := synthesis.NewSynthesizer(engine, sysLogger)
	normalizer := textnorm.New(cfg.App.StopwordsPath, sysLogger)

	// 5. Repositories
	tripleRepo := implementation.NewTripleRepository(db)
	conversationRepo := implementation.NewConversationRepository(db)
	sessionRepo := memory.NewSessionRepository()

	factClient := facts.NewClient(tripleRepo, cacheStore, sysLogger)

	// 6. Services
	chatService := service.NewChatService(
		engine,
		factClient,
		synthesizer,
		normalizer,
		sessionRepo,
		pubSub,
		cfg.App.ConversationTopic,
		sysLogger,
	)
	consultantService := service.NewConsultantService(cfg.Webhooks.GoogleChatURL, natsPub, sysLogger)
	demoService := service.NewDemoService(cfg.Webhooks.GoogleChatURL, emailService, sysLogger)
	conversationService := service.NewConversationService(conversationRepo, sysLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.ConversationTopic,
		conversationRepo,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		ChatController:         controller.NewChatController(chatService),
		ConsultationController: controller.NewConsultationController(consultantService, demoService),
		ConversationController: controller.NewConversationController(conversationService),
		HealthController:       controller.NewHealthController(db, engine),
		OpsController:          controller.NewOpsController(sysLogger, factClient),

		ConsumerService: consumerService,
	}
}
