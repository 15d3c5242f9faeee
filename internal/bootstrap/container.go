package bootstrap

import (
	"context"
	"log"

	"strategy-buddy-be/internal/config"
	"strategy-buddy-be/internal/controller"
	"strategy-buddy-be/internal/handler"
	"strategy-buddy-be/internal/model"
	"strategy-buddy-be/internal/pkg/logger"
	"strategy-buddy-be/internal/pkg/mailer"
	"strategy-buddy-be/internal/pkg/serverutils"
	"strategy-buddy-be/internal/repository/implementation"
	"strategy-buddy-be/internal/repository/memory"
	"strategy-buddy-be/internal/service"
	"strategy-buddy-be/internal/websocket"
	"strategy-buddy-be/pkg/assistant/factory"
	"strategy-buddy-be/pkg/storage"

	pktNats "strategy-buddy-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v76"
	"github.com/supabase-community/supabase-go"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	BillingController  controller.IBillingController
	AccessController   controller.IAccessController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WsHandler    *handler.WsHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	if err := db.AutoMigrate(&model.Subscription{}, &model.BillingEvent{}); err != nil {
		log.Panicf("Unable to migrate schema: %v", err)
	}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	stripe.Key = cfg.Stripe.SecretKey

	// 2. External collaborators
	supabaseClient, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, nil)
	if err != nil {
		log.Panicf("Unable to create Supabase client: %v", err)
	}
	store := storage.NewClient(supabaseClient.Storage, cfg.Supabase.Bucket, cfg.Supabase.PdfFolder)

	assistantProvider, err := factory.NewProvider("openai", cfg.Assistant.APIKey, cfg.Assistant.BaseURL)
	if err != nil {
		log.Panicf("Unable to initialize assistant provider: %v", err)
	}

	// 3. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
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

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/chat_ws.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Repositories
	conversationRepo := memory.NewConversationRepository()
	documentRepo := memory.NewDocumentRepository()
	subscriptionRepo := implementation.NewSubscriptionRepository(db)
	billingEventRepo := implementation.NewBillingEventRepository(db)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.App.TurnTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.TurnTopic, wsHub)

	documentService := service.NewDocumentService(store, documentRepo, conversationRepo, sysLogger)
	chatService := service.NewChatService(
		conversationRepo,
		documentService,
		assistantProvider,
		publisherService,
		cfg.Assistant,
		sysLogger,
	)
	accessService := service.NewAccessService(subscriptionRepo, supabaseClient.Auth, cfg.Access, sysLogger)
	billingService := service.NewBillingService(
		subscriptionRepo,
		billingEventRepo,
		natsPub,
		emailService,
		cfg.Stripe,
		cfg.App.ClientURL,
		sysLogger,
	)

	// 6. HTTP surface
	authMiddleware := serverutils.JwtMiddleware(cfg.Supabase.JWTSecret)
	optionalAuth := serverutils.OptionalJwtMiddleware(cfg.Supabase.JWTSecret)

	wsHandler := handler.NewWsHandler(wsHub, cfg.Supabase.JWTSecret, wsLogger)

	return &Container{
		ChatController:     controller.NewChatController(chatService, authMiddleware),
		DocumentController: controller.NewDocumentController(documentService, authMiddleware),
		BillingController:  controller.NewBillingController(billingService, authMiddleware),
		AccessController:   controller.NewAccessController(accessService, authMiddleware, optionalAuth),

		ConsumerService: consumerService,

		WsHandler:    wsHandler,
		WebSocketHub: wsHub,
	}
}
