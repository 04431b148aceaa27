package bootstrap

import (
	"context"
	"log"
	"time"

	"trade-assistant-be/internal/config"
	"trade-assistant-be/internal/controller"
	"trade-assistant-be/internal/pkg/logger"
	"trade-assistant-be/internal/repository/contract"
	"trade-assistant-be/internal/repository/implementation"
	"trade-assistant-be/internal/repository/memory"
	redisrepo "trade-assistant-be/internal/repository/redis"
	"trade-assistant-be/internal/service"
	"trade-assistant-be/pkg/assistant/content"
	"trade-assistant-be/pkg/assistant/orchestrator"
	"trade-assistant-be/pkg/assistant/sessionindex"
	"trade-assistant-be/pkg/provider/openai"

	pktNats "trade-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shareOptInTopic = "assistant.library.share_opt_in"

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	LibraryController   controller.ILibraryController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS (optional; share audits are still persisted without it)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Metadata backend selection
	var handleRepo contract.DocumentHandleRepository
	var sessionRepo contract.SessionIndexRepository
	switch cfg.App.MetadataBackend {
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		handleRepo = redisrepo.NewDocumentHandleRepository(rdb)
		sessionRepo = redisrepo.NewSessionIndexRepository(rdb)
		log.Printf("[INFO] Using Metadata Backend: REDIS")
	case "memory":
		handleRepo = memory.NewDocumentHandleRepository()
		sessionRepo = memory.NewSessionIndexRepository()
		log.Printf("[INFO] Using Metadata Backend: MEMORY")
	default:
		handleRepo = implementation.NewDocumentHandleRepository(db)
		sessionRepo = implementation.NewSessionIndexRepository(db)
		log.Printf("[INFO] Using Metadata Backend: POSTGRES")
	}
	auditRepo := implementation.NewShareAuditRepository(db)

	// 3. Provider + Assistant Components
	aiClient := openai.NewClient(cfg.Ai.OpenAIKey, cfg.Ai.OpenAIModel)

	contentStore := content.NewStore(aiClient, handleRepo, sysLogger)
	sessionManager := sessionindex.NewManager(aiClient, sessionRepo, sysLogger).
		WithWaitTimeout(cfg.Assistant.IndexingWaitTimeout, 800*time.Millisecond)
	answerOrchestrator := orchestrator.NewOrchestrator(aiClient, sysLogger)

	// 4. Services
	publisherService := service.NewPublisherService(shareOptInTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		shareOptInTopic,
		auditRepo,
		natsPub,
	)

	assistantService := service.NewAssistantService(
		contentStore,
		sessionManager,
		answerOrchestrator,
		aiClient,
		publisherService,
		cfg.Assistant,
		sysLogger,
	)
	libraryService := service.NewLibraryService(
		contentStore,
		sessionManager,
		aiClient,
		aiClient,
		cfg.Assistant,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		LibraryController:   controller.NewLibraryController(libraryService),

		ConsumerService: consumerService,
	}
}
